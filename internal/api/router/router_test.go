package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/api/handler"
	"study-strata/internal/service"
	"study-strata/pkg/jwt"
)

func setupTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	ref, err := service.LoadReference(context.Background(), &config.CatalogConfig{Source: config.CatalogSourceFile}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("加载内置数据失败: %v", err)
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: "router-secret", AccessTokenTTL: time.Minute},
		Schedule: config.ScheduleConfig{
			SlotMinutes: 30, DayStart: "08:00", DayEnd: "18:00",
			MaxCreditsPerQuarter: 24, MinCreditsPerQuarter: 8, MaxCoursesPerQuarter: 6,
		},
	}
	svc := service.NewService(cfg, ref, service.Dependencies{}, zap.NewNop())
	mgr := jwt.NewManager(&cfg.Auth)
	return Setup(cfg, handler.NewHandler(svc), mgr, nil, zap.NewNop()), mgr
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("应设置 X-Request-ID")
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/courses", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRouter_GetCourse(t *testing.T) {
	r, mgr := setupTestRouter(t)
	token, _ := mgr.GenerateAccessToken("stu-1", "student")

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/api/v1/courses/cs31", http.StatusOK},
		{"/api/v1/courses/HIST99", http.StatusNotFound},
		{"/api/v1/majors", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.wantCode {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.wantCode, w.Code)
		}
	}
}
