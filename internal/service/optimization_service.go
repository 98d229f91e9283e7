package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/dto"
	"study-strata/internal/engine"
	"study-strata/pkg/optimizer"
)

// ── 排课优化模块业务错误 ──

var (
	ErrOptimizerUnavailable     = errors.New("排课优化服务暂不可用，请稍后重试")
	ErrOptimizationRejected     = errors.New("排课优化失败")
	ErrOptimizationInFlight     = errors.New("已有排课优化请求正在处理")
	ErrGraduationDeadlinePassed = errors.New("目标毕业学季不晚于当前学季")
)

const optimizeLockPrefix = "optimize:lock:"

// Optimizer 远程排课优化服务（由 pkg/optimizer.Client 实现）
type Optimizer interface {
	Optimize(ctx context.Context, req *optimizer.Request) (*optimizer.Result, error)
}

// Locker 带 TTL 的互斥锁（由 pkg/redis.Client 实现）
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// OptimizationService 排课优化接口
type OptimizationService interface {
	// Optimize 向远程服务发起一次排课优化
	// 同一学生同时只允许一个请求；任何返回路径都会释放锁
	Optimize(ctx context.Context, studentID string, req *dto.OptimizeRequest) (*dto.OptimizeResponse, error)
}

type optimizationService struct {
	ref      *Reference
	client   Optimizer
	locker   Locker
	lockTTL  time.Duration
	schedule config.ScheduleConfig
	logger   *zap.Logger
}

// NewOptimizationService 创建 OptimizationService 实例；locker 为 nil 时使用进程内锁
func NewOptimizationService(
	ref *Reference,
	client Optimizer,
	locker Locker,
	lockTTL time.Duration,
	scheduleCfg config.ScheduleConfig,
	logger *zap.Logger,
) OptimizationService {
	if locker == nil {
		locker = newLocalLocker()
	}
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &optimizationService{
		ref:      ref,
		client:   client,
		locker:   locker,
		lockTTL:  lockTTL,
		schedule: scheduleCfg,
		logger:   logger,
	}
}

// ════════════════════════════════════════════════════════════
// Optimize
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 计算 targetQuarters，≤ 0 直接拒绝（不占锁、不发请求）
//   2. 组装请求（可选课程、约束、目标）
//   3. 获取该学生的锁 → 调用远程服务 → 释放锁
//   4. 远程错误映射为 ErrOptimizerUnavailable / ErrOptimizationRejected

func (s *optimizationService) Optimize(ctx context.Context, studentID string, req *dto.OptimizeRequest) (*dto.OptimizeResponse, error) {
	current, err := engine.ParseQuarter(req.CurrentQuarter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuarter, req.CurrentQuarter)
	}
	target, err := engine.ParseQuarter(req.TargetQuarter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuarter, req.TargetQuarter)
	}
	quarters := engine.TargetQuarters(current, req.CurrentYear, target, req.TargetYear)
	if quarters <= 0 {
		return nil, ErrGraduationDeadlinePassed
	}

	wire, err := s.buildRequest(req, quarters, target)
	if err != nil {
		return nil, err
	}

	key := optimizeLockPrefix + studentID
	token, ok, err := s.locker.AcquireLock(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.Error("获取排课优化锁失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, fmt.Errorf("获取排课优化锁失败: %w", err)
	}
	if !ok {
		return nil, ErrOptimizationInFlight
	}
	defer func() {
		// 请求上下文可能已取消，释放锁使用独立上下文
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.locker.ReleaseLock(releaseCtx, key, token); err != nil {
			s.logger.Warn("释放排课优化锁失败", zap.String("student_id", studentID), zap.Error(err))
		}
	}()

	result, err := s.client.Optimize(ctx, wire)
	if err != nil {
		switch {
		case errors.Is(err, optimizer.ErrRejected):
			s.logger.Info("排课优化被拒绝", zap.String("student_id", studentID), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrOptimizationRejected, err)
		default:
			s.logger.Error("排课优化服务调用失败", zap.String("student_id", studentID), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrOptimizerUnavailable, err)
		}
	}

	return &dto.OptimizeResponse{TargetQuarters: quarters, Result: *result}, nil
}

func (s *optimizationService) buildRequest(req *dto.OptimizeRequest, quarters int, target engine.Quarter) (*optimizer.Request, error) {
	profile := req.Profile.ToEngine()
	grant := s.ref.AP.Resolve(profile.APScores)
	done := make(map[string]bool)
	for _, code := range engine.EnrichCompleted(profile.CompletedCourses, grant) {
		done[code] = true
	}

	// 可选课程：显式给出时逐个查目录，否则取目录中尚未修过的全部课程
	var available []engine.Course
	if len(req.CourseCodes) > 0 {
		for _, code := range engine.NormalizeCodes(req.CourseCodes) {
			c, ok := s.ref.Catalog.LookupCourse(code)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, code)
			}
			available = append(available, c)
		}
	} else {
		for _, c := range s.ref.Catalog.Courses() {
			if !done[c.Code] {
				available = append(available, c)
			}
		}
	}

	preferred, err := toWireSlots(req.Constraints.PreferredTimeSlots)
	if err != nil {
		return nil, err
	}
	avoid, err := toWireSlots(req.Constraints.AvoidTimeSlots)
	if err != nil {
		return nil, err
	}

	maxCredits := req.Constraints.MaxCreditsPerQuarter
	if maxCredits == 0 {
		maxCredits = s.schedule.MaxCreditsPerQuarter
	}
	minCredits := req.Constraints.MinCreditsPerQuarter
	if minCredits == 0 {
		minCredits = s.schedule.MinCreditsPerQuarter
	}

	wire := &optimizer.Request{
		StudentProfile: optimizer.StudentProfile{
			Year:             string(profile.Year),
			Major:            profile.Major,
			CompletedCourses: nonNil(engine.NormalizeCodes(profile.CompletedCourses)),
			APScores:         make([]optimizer.APScore, 0, len(profile.APScores)),
			CurrentGPA:       profile.CurrentGPA,
		},
		AvailableCourses: make([]optimizer.Course, 0, len(available)),
		Constraints: optimizer.Constraints{
			MaxCreditsPerQuarter: maxCredits,
			MinCreditsPerQuarter: minCredits,
			PreferredTimeSlots:   preferred,
			AvoidTimeSlots:       avoid,
			MaxWorkloadPerWeek:   req.Constraints.MaxWorkloadPerWeek,
			GPAGoal:              req.Constraints.GPAGoal,
			GraduationDeadline:   &optimizer.QuarterRef{Season: string(target), Year: req.TargetYear},
		},
		TargetQuarters: quarters,
		OptimizationGoals: optimizer.Goals{
			PrioritizeGPA:         req.Goals.PrioritizeGPA,
			PrioritizeWorkload:    req.Goals.PrioritizeWorkload,
			PrioritizeGraduation:  req.Goals.PrioritizeGraduation,
			PrioritizePreferences: req.Goals.PrioritizePreferences,
		},
	}
	for _, a := range profile.APScores {
		wire.StudentProfile.APScores = append(wire.StudentProfile.APScores, optimizer.APScore{ExamName: a.ExamName, Score: a.Score})
	}
	for _, c := range available {
		wire.AvailableCourses = append(wire.AvailableCourses, toWireCourse(c))
	}
	return wire, nil
}

func toWireCourse(c engine.Course) optimizer.Course {
	out := optimizer.Course{
		Code:       c.Code,
		Name:       c.Name,
		Credits:    c.Credits,
		Type:       string(c.Type),
		Difficulty: string(c.Difficulty),
	}
	if c.HasSchedule() {
		for _, d := range c.Days {
			out.Days = append(out.Days, string(d))
		}
		out.StartTime = engine.FormatClock(c.StartTime)
		out.EndTime = engine.FormatClock(c.EndTime)
	}
	return out
}

func toWireSlots(in []dto.TimeSlotInput) ([]optimizer.TimeSlot, error) {
	out := make([]optimizer.TimeSlot, 0, len(in))
	for _, slot := range in {
		d, err := engine.ParseDay(slot.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTimetableInvalidDay, slot.Day)
		}
		start, err := engine.ParseClock(slot.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTimetableInvalidTime, slot.StartTime)
		}
		end, err := engine.ParseClock(slot.EndTime)
		if err != nil || end <= start {
			return nil, fmt.Errorf("%w: %s", ErrTimetableInvalidTime, slot.EndTime)
		}
		out = append(out, optimizer.TimeSlot{
			Day:       string(d),
			StartTime: engine.FormatClock(start),
			EndTime:   engine.FormatClock(end),
		})
	}
	return out, nil
}

// ── 进程内锁（未配置 Redis 时使用）──

type localLocker struct {
	mu    sync.Mutex
	held  map[string]localLock
	nowFn func() time.Time
}

type localLock struct {
	token   string
	expires time.Time
}

func newLocalLocker() *localLocker {
	return &localLocker{held: make(map[string]localLock), nowFn: time.Now}
}

func (l *localLocker) AcquireLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[key] = localLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *localLocker) ReleaseLock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.held[key]; ok && cur.token == token {
		delete(l.held, key)
	}
	return nil
}
