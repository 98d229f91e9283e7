package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"study-strata/internal/dto"
	"study-strata/pkg/optimizer"
)

func validOptimizeRequest() *dto.OptimizeRequest {
	return &dto.OptimizeRequest{
		Profile: dto.StudentProfileRequest{
			Year:             "sophomore",
			Major:            "Computer Science",
			CompletedCourses: []string{"CS31"},
			APScores:         []dto.APScoreInput{{ExamName: "AP Calculus BC", Score: 5}},
		},
		Constraints: dto.OptimizeConstraints{
			PreferredTimeSlots: []dto.TimeSlotInput{{Day: "Tue", StartTime: "9:00", EndTime: "12:00"}},
		},
		Goals:          dto.OptimizeGoals{PrioritizeGraduation: true},
		CurrentQuarter: "Fall",
		CurrentYear:    2025,
		TargetQuarter:  "Spring",
		TargetYear:     2027,
	}
}

func TestOptimizationService_Success(t *testing.T) {
	locker := newMockLocker()
	client := &mockOptimizer{result: &optimizer.Result{Score: 0.82, Warnings: []string{}}}
	svc := NewOptimizationService(testReference(t), client, locker, time.Minute, testScheduleConfig(), nopLogger)

	client.during = func() {
		if _, held := locker.held[optimizeLockPrefix+"stu-1"]; !held {
			t.Error("调用远程服务期间应持有锁")
		}
	}

	resp, err := svc.Optimize(context.Background(), "stu-1", validOptimizeRequest())
	if err != nil {
		t.Fatalf("Optimize 失败: %v", err)
	}
	// (2027-2025)*4 + (2-0) = 10
	if resp.TargetQuarters != 10 || resp.Result.Score != 0.82 {
		t.Errorf("响应 = %+v", resp)
	}
	if locker.released != 1 || len(locker.held) != 0 {
		t.Errorf("返回后应释放锁: released=%d held=%v", locker.released, locker.held)
	}

	req := client.lastReq
	if req.TargetQuarters != 10 || req.Constraints.MaxCreditsPerQuarter != 24 {
		t.Errorf("请求参数错误: %+v", req.Constraints)
	}
	if req.Constraints.GraduationDeadline == nil || req.Constraints.GraduationDeadline.Season != "Spring" {
		t.Errorf("毕业期限 = %+v", req.Constraints.GraduationDeadline)
	}
	if len(req.Constraints.PreferredTimeSlots) != 1 || req.Constraints.PreferredTimeSlots[0].Day != "T" ||
		req.Constraints.PreferredTimeSlots[0].StartTime != "09:00" {
		t.Errorf("偏好时段应规范化: %+v", req.Constraints.PreferredTimeSlots)
	}
	for _, c := range req.AvailableCourses {
		switch c.Code {
		case "CS31", "MATH31A", "MATH31B":
			t.Errorf("已修或 AP 覆盖的课程不应出现在可选课程中: %s", c.Code)
		}
	}
}

func TestOptimizationService_DeadlinePassed(t *testing.T) {
	locker := newMockLocker()
	client := &mockOptimizer{}
	svc := NewOptimizationService(testReference(t), client, locker, time.Minute, testScheduleConfig(), nopLogger)

	req := validOptimizeRequest()
	req.TargetQuarter, req.TargetYear = "Fall", 2025

	if _, err := svc.Optimize(context.Background(), "stu-1", req); !errors.Is(err, ErrGraduationDeadlinePassed) {
		t.Fatalf("期望 ErrGraduationDeadlinePassed, 实际 %v", err)
	}
	if client.calls != 0 || locker.acquired != 0 {
		t.Errorf("期限已过时不应占锁或调用远程服务: calls=%d acquired=%d", client.calls, locker.acquired)
	}
}

func TestOptimizationService_InFlight(t *testing.T) {
	locker := newMockLocker()
	locker.held[optimizeLockPrefix+"stu-1"] = "other"
	client := &mockOptimizer{result: &optimizer.Result{}}
	svc := NewOptimizationService(testReference(t), client, locker, time.Minute, testScheduleConfig(), nopLogger)

	if _, err := svc.Optimize(context.Background(), "stu-1", validOptimizeRequest()); !errors.Is(err, ErrOptimizationInFlight) {
		t.Fatalf("期望 ErrOptimizationInFlight, 实际 %v", err)
	}
	if client.calls != 0 {
		t.Error("已有请求时不应调用远程服务")
	}
	if locker.held[optimizeLockPrefix+"stu-1"] != "other" {
		t.Error("不应释放他人持有的锁")
	}

	// 其他学生不受影响
	if _, err := svc.Optimize(context.Background(), "stu-2", validOptimizeRequest()); err != nil {
		t.Errorf("stu-2 应成功: %v", err)
	}
}

func TestOptimizationService_RemoteFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"拒绝", fmt.Errorf("%w: no feasible schedule", optimizer.ErrRejected), ErrOptimizationRejected},
		{"不可用", fmt.Errorf("%w: HTTP 502", optimizer.ErrUnavailable), ErrOptimizerUnavailable},
		{"超时", context.DeadlineExceeded, ErrOptimizerUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locker := newMockLocker()
			client := &mockOptimizer{err: tt.err}
			svc := NewOptimizationService(testReference(t), client, locker, time.Minute, testScheduleConfig(), nopLogger)

			_, err := svc.Optimize(context.Background(), "stu-1", validOptimizeRequest())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("期望 %v, 实际 %v", tt.wantErr, err)
			}
			if len(locker.held) != 0 {
				t.Error("失败后应释放锁，允许重试")
			}
		})
	}
}

func TestOptimizationService_UnknownCourseCode(t *testing.T) {
	client := &mockOptimizer{}
	svc := NewOptimizationService(testReference(t), client, nil, 0, testScheduleConfig(), nopLogger)

	req := validOptimizeRequest()
	req.CourseCodes = []string{"CS32", "NOPE1"}
	if _, err := svc.Optimize(context.Background(), "stu-1", req); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound, 实际 %v", err)
	}
	if client.calls != 0 {
		t.Error("请求无效时不应调用远程服务")
	}
}

func TestLocalLocker(t *testing.T) {
	l := newLocalLocker()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.nowFn = func() time.Time { return now }
	ctx := context.Background()

	tok, ok, _ := l.AcquireLock(ctx, "k", time.Minute)
	if !ok {
		t.Fatal("首次获取应成功")
	}
	if _, ok, _ := l.AcquireLock(ctx, "k", time.Minute); ok {
		t.Error("持有期间不应重复获取")
	}

	_ = l.ReleaseLock(ctx, "k", "wrong-token")
	if _, ok, _ := l.AcquireLock(ctx, "k", time.Minute); ok {
		t.Error("错误令牌不应释放锁")
	}

	_ = l.ReleaseLock(ctx, "k", tok)
	if _, ok, _ := l.AcquireLock(ctx, "k", time.Minute); !ok {
		t.Error("释放后应可再次获取")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := l.AcquireLock(ctx, "k", time.Minute); !ok {
		t.Error("过期后应可再次获取")
	}
}
