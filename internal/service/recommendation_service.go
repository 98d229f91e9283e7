package service

import (
	"context"

	"go.uber.org/zap"

	"study-strata/internal/dto"
	"study-strata/internal/engine"
)

// RecommendationService 选课建议与顾问开场白
type RecommendationService interface {
	// Recommend 按规则表生成选课建议；byPriority 为 true 时按优先级稳定排序
	Recommend(ctx context.Context, req *dto.StudentProfileRequest, byPriority bool) *dto.RecommendationResponse
	// Greeting 顾问开场白
	Greeting(ctx context.Context, req *dto.StudentProfileRequest) *dto.GreetingResponse
}

type recommendationService struct {
	ref    *Reference
	logger *zap.Logger
}

// NewRecommendationService 创建 RecommendationService 实例
func NewRecommendationService(ref *Reference, logger *zap.Logger) RecommendationService {
	return &recommendationService{ref: ref, logger: logger}
}

func (s *recommendationService) Recommend(_ context.Context, req *dto.StudentProfileRequest, byPriority bool) *dto.RecommendationResponse {
	profile := req.ToEngine()
	grant := s.ref.AP.Resolve(profile.APScores)
	// 规则求值前并入 AP 替代的课程
	profile.CompletedCourses = engine.EnrichCompleted(profile.CompletedCourses, grant)

	recs := engine.Recommend(s.ref.Rules, s.ref.AP, profile, s.ref.Catalog.Courses())
	if byPriority {
		recs = engine.SortByPriority(recs)
	}
	if recs == nil {
		recs = []engine.CourseRecommendation{}
	}
	if len(recs) == 0 {
		s.logger.Debug("无匹配的选课建议",
			zap.String("year", req.Year),
			zap.String("major", req.Major),
		)
	}
	return &dto.RecommendationResponse{Recommendations: recs, APCredit: grant}
}

func (s *recommendationService) Greeting(_ context.Context, req *dto.StudentProfileRequest) *dto.GreetingResponse {
	return &dto.GreetingResponse{
		Message: engine.InitialAdvisorMessage(s.ref.Rules, s.ref.AP, req.ToEngine()),
	}
}
