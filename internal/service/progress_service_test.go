package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-strata/internal/dto"
	"study-strata/internal/engine"
)

func TestProgressService_UnknownMajorIsUnavailable(t *testing.T) {
	svc := NewProgressService(testReference(t), nil, 0, nopLogger)

	resp, err := svc.Evaluate(context.Background(), &dto.ProgressRequest{Major: "Underwater Basket Weaving"})
	if err != nil {
		t.Fatalf("未知专业不应返回错误: %v", err)
	}
	if resp.Available || resp.Progress != nil || resp.Graduation != nil {
		t.Errorf("期望 available=false 且无进度, 实际 %+v", resp)
	}
}

func TestProgressService_APEnrichedProgress(t *testing.T) {
	svc := NewProgressService(testReference(t), nil, 0, nopLogger)

	resp, err := svc.Evaluate(context.Background(), &dto.ProgressRequest{
		Major:            "Computer Science",
		CompletedCourses: []string{"CS32"},
		APScores:         []dto.APScoreInput{{ExamName: "AP Computer Science A", Score: 5}},
	})
	if err != nil {
		t.Fatalf("Evaluate 失败: %v", err)
	}
	if !resp.Available {
		t.Fatal("Computer Science 应可用")
	}
	if !resp.APCredit.Grants("CS31") {
		t.Errorf("AP 应授予 CS31: %+v", resp.APCredit)
	}

	core := resp.Progress.Categories[0]
	if core.Name != "Lower Division Core" || core.CompletedCredits != 8 {
		t.Errorf("AP 课程应计入核心课学分: %+v", core)
	}
	if resp.GPA != nil {
		t.Error("未提供成绩时不应计算 GPA")
	}
	if resp.Graduation == nil || resp.Graduation.Eligible {
		t.Errorf("不应满足毕业条件: %+v", resp.Graduation)
	}
}

func TestProgressService_GraduationNeedsGrades(t *testing.T) {
	svc := NewProgressService(testReference(t), nil, 0, nopLogger)
	ctx := context.Background()

	req := &dto.ProgressRequest{Major: "Computer Science", CompletedCourses: []string{"CS31"}}
	resp, err := svc.Evaluate(ctx, req)
	if err != nil {
		t.Fatalf("Evaluate 失败: %v", err)
	}
	if !resp.Graduation.MissingGPA || resp.Standing != "" {
		t.Errorf("无成绩时应标记缺少 GPA: %+v standing=%q", resp.Graduation, resp.Standing)
	}

	req.Grades = []dto.GradeInput{{CourseCode: "CS31", Grade: "A"}}
	resp, err = svc.Evaluate(ctx, req)
	if err != nil {
		t.Fatalf("Evaluate 失败: %v", err)
	}
	if resp.Graduation.MissingGPA || resp.Standing != engine.StandingGood {
		t.Errorf("有成绩时不应标记缺少 GPA: %+v standing=%q", resp.Graduation, resp.Standing)
	}
}

func TestProgressService_GradesAndStanding(t *testing.T) {
	svc := NewProgressService(testReference(t), nil, 0, nopLogger)

	resp, err := svc.Evaluate(context.Background(), &dto.ProgressRequest{
		Major:            "Computer Science",
		CompletedCourses: []string{"CS31", "PHYSICS1A"},
		Grades: []dto.GradeInput{
			{CourseCode: "CS31", Grade: "C"},      // 4 学分取自目录
			{CourseCode: "PHYSICS1A", Grade: "D"}, // 5 学分
			{CourseCode: "ENGCOMP3", Grade: "P", Credits: 5},
		},
	})
	if err != nil {
		t.Fatalf("Evaluate 失败: %v", err)
	}
	// (4*2.0 + 5*1.0) / 9 = 1.444… → 1.44
	if resp.GPA == nil || *resp.GPA != 1.44 {
		t.Fatalf("GPA = %v, 期望 1.44", resp.GPA)
	}
	if resp.Standing != engine.StandingDisqualified {
		t.Errorf("学业状态 = %s", resp.Standing)
	}
	if !resp.Graduation.StandingBlocksGrad {
		t.Error("Disqualified 应阻止毕业")
	}
}

func TestProgressService_CacheHit(t *testing.T) {
	cache := newMockCache()
	svc := NewProgressService(testReference(t), cache, time.Minute, nopLogger)
	ctx := context.Background()

	first, err := svc.Evaluate(ctx, &dto.ProgressRequest{Major: "Computer Science", CompletedCourses: []string{"CS31", "CS32"}})
	if err != nil {
		t.Fatalf("Evaluate 失败: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("首次计算应写入缓存, sets=%d", cache.sets)
	}

	// 顺序与大小写不同，应命中同一缓存键
	second, err := svc.Evaluate(ctx, &dto.ProgressRequest{Major: "computer science", CompletedCourses: []string{"cs32", "CS31"}})
	if err != nil {
		t.Fatalf("Evaluate 失败: %v", err)
	}
	if cache.sets != 1 || cache.gets != 2 {
		t.Errorf("第二次应命中缓存, gets=%d sets=%d", cache.gets, cache.sets)
	}
	if second.Progress.TotalCredits != first.Progress.TotalCredits {
		t.Errorf("缓存结果不一致: %d vs %d", second.Progress.TotalCredits, first.Progress.TotalCredits)
	}
}

func TestProgressService_CacheFailureDegrades(t *testing.T) {
	cache := newMockCache()
	cache.failGet = errors.New("connection refused")
	cache.failSet = errors.New("connection refused")
	svc := NewProgressService(testReference(t), cache, time.Minute, nopLogger)

	resp, err := svc.Evaluate(context.Background(), &dto.ProgressRequest{Major: "Computer Science", CompletedCourses: []string{"CS31"}})
	if err != nil {
		t.Fatalf("缓存故障不应影响结果: %v", err)
	}
	if !resp.Available || resp.Progress.Categories[0].Progress != 33.3 {
		t.Errorf("期望核心课进度 33.3, 实际 %+v", resp.Progress.Categories[0])
	}
}

func TestProgressCacheKey_OrderIndependent(t *testing.T) {
	a := progressCacheKey("v1", "Computer Science", engine.EnrichCompleted([]string{"CS31", "CS32"}, engine.APGrant{}))
	b := progressCacheKey("v1", " computer  science", engine.EnrichCompleted([]string{"cs32", "CS31"}, engine.APGrant{}))
	if a != b {
		t.Errorf("键应与顺序、大小写无关: %s vs %s", a, b)
	}
	c := progressCacheKey("v1", "Computer Science", []string{"CS31"})
	if a == c {
		t.Error("不同已修课程应得到不同键")
	}
	d := progressCacheKey("v2", "Computer Science", engine.EnrichCompleted([]string{"CS31", "CS32"}, engine.APGrant{}))
	if a == d {
		t.Error("目录版本不同应得到不同键")
	}
}
