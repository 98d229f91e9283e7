package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/seed"
	apperrors "study-strata/pkg/errors"
	"study-strata/pkg/optimizer"
)

// ── 测试参考数据（内置种子）──

func testReference(t *testing.T) *Reference {
	t.Helper()
	d, err := seed.Default()
	if err != nil {
		t.Fatalf("加载种子数据失败: %v", err)
	}
	c, ap, rules, err := d.Build()
	if err != nil {
		t.Fatalf("构建参考数据失败: %v", err)
	}
	return newReference(c, ap, rules)
}

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{
		SlotMinutes:          30,
		DayStart:             "08:00",
		DayEnd:               "18:00",
		MaxCreditsPerQuarter: 24,
		MinCreditsPerQuarter: 8,
		MaxCoursesPerQuarter: 6,
	}
}

var nopLogger = zap.NewNop()

// ── Mock JSONCache ──

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failGet error
	failSet error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet != nil {
		return m.failGet
	}
	raw, ok := m.data[key]
	if !ok {
		return apperrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet != nil {
		return m.failSet
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

// ── Mock Locker ──

type mockLocker struct {
	mu       sync.Mutex
	held     map[string]string
	acquired int
	released int
	err      error
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]string)}
}

func (m *mockLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	if _, ok := m.held[key]; ok {
		return "", false, nil
	}
	m.acquired++
	m.held[key] = "tok-" + key
	return "tok-" + key, true, nil
}

func (m *mockLocker) ReleaseLock(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
		m.released++
	}
	return nil
}

// ── Mock Optimizer ──

type mockOptimizer struct {
	calls   int
	lastReq *optimizer.Request
	result  *optimizer.Result
	err     error
	// 调用期间执行，用于检查锁状态
	during func()
}

func (m *mockOptimizer) Optimize(_ context.Context, req *optimizer.Request) (*optimizer.Result, error) {
	m.calls++
	m.lastReq = req
	if m.during != nil {
		m.during()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
