package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"study-strata/internal/dto"
	"study-strata/internal/engine"
	apperrors "study-strata/pkg/errors"
)

// JSONCache 进度报告缓存（由 pkg/redis.Client 实现）
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// ProgressService 学业进度接口
type ProgressService interface {
	// Evaluate AP 并入 → 进度计算 → GPA / 学业状态 / 毕业资格
	// 专业不在目录中时返回 Available=false，不返回错误
	Evaluate(ctx context.Context, req *dto.ProgressRequest) (*dto.ProgressResponse, error)
}

type progressService struct {
	ref    *Reference
	cache  JSONCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewProgressService 创建 ProgressService 实例；cache 可为 nil
func NewProgressService(ref *Reference, cache JSONCache, ttl time.Duration, logger *zap.Logger) ProgressService {
	return &progressService{ref: ref, cache: cache, ttl: ttl, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Evaluate
// ════════════════════════════════════════════════════════════
//
// 缓存只覆盖进度计算部分，键为专业 + 并入 AP 后的已修课程集合。
// 缓存读写失败只记日志，不影响结果。

func (s *progressService) Evaluate(ctx context.Context, req *dto.ProgressRequest) (*dto.ProgressResponse, error) {
	grant := s.ref.AP.Resolve(dto.ToEngineScores(req.APScores))
	completed := engine.EnrichCompleted(req.CompletedCourses, grant)

	resp := &dto.ProgressResponse{Major: req.Major, APCredit: grant}

	progress, ok := s.cachedEvaluate(ctx, req.Major, completed)
	if !ok {
		s.logger.Debug("专业不在目录中", zap.String("major", req.Major))
		return resp, nil
	}
	resp.Available = true
	resp.Progress = &progress

	// 无成绩记录时学业状态未知，毕业资格不成立
	var standing engine.Standing
	if len(req.Grades) > 0 {
		grades := make([]engine.GradeRecord, 0, len(req.Grades))
		for _, g := range req.Grades {
			credits := g.Credits
			if credits == 0 {
				if c, found := s.ref.Catalog.LookupCourse(g.CourseCode); found {
					credits = c.Credits
				}
			}
			grades = append(grades, engine.GradeRecord{CourseCode: g.CourseCode, Grade: g.Grade, Credits: credits})
		}
		gpa := engine.CalculateGPA(grades)
		standing = engine.StandingFor(gpa)
		resp.GPA = &gpa
		resp.Standing = standing
	}
	grad := engine.GraduationCheck(progress, standing)
	resp.Graduation = &grad
	return resp, nil
}

func (s *progressService) cachedEvaluate(ctx context.Context, major string, completed []string) (engine.DegreeProgress, bool) {
	if s.cache == nil {
		return engine.Evaluate(s.ref.Catalog, major, completed)
	}

	key := progressCacheKey(s.ref.Version, major, completed)
	var cached engine.DegreeProgress
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, true
	}
	if !errors.Is(err, apperrors.ErrCacheMiss) {
		s.logger.Warn("读取进度缓存失败", zap.String("key", key), zap.Error(err))
	}

	progress, ok := engine.Evaluate(s.ref.Catalog, major, completed)
	if !ok {
		return progress, false
	}
	if err := s.cache.SetJSON(ctx, key, progress, s.ttl); err != nil {
		s.logger.Warn("写入进度缓存失败", zap.String("key", key), zap.Error(err))
	}
	return progress, true
}

// progressCacheKey progress:<目录指纹>:<sha256(major|sorted codes)>
func progressCacheKey(version, major string, completed []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(strings.Fields(strings.ToLower(major)), " ")))
	for _, code := range engine.NormalizeCodes(completed) {
		h.Write([]byte{'|'})
		h.Write([]byte(code))
	}
	return "progress:" + version + ":" + hex.EncodeToString(h.Sum(nil))
}
