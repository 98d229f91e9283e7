package service

import (
	"go.uber.org/zap"

	"study-strata/config"
)

// Dependencies 可选基础设施；为 nil 时对应功能降级
//   - Cache 为 nil：不缓存进度报告
//   - Locker 为 nil：排课优化使用进程内锁
type Dependencies struct {
	Cache     JSONCache
	Locker    Locker
	Optimizer Optimizer
}

// Service 所有 Service 的聚合入口
type Service struct {
	Catalog        CatalogService
	Progress       ProgressService
	Recommendation RecommendationService
	Timetable      TimetableService
	Optimization   OptimizationService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	ref *Reference,
	deps Dependencies,
	logger *zap.Logger,
) *Service {
	return &Service{
		Catalog:        NewCatalogService(ref, logger),
		Progress:       NewProgressService(ref, deps.Cache, cfg.Cache.ProgressTTL, logger),
		Recommendation: NewRecommendationService(ref, logger),
		Timetable:      NewTimetableService(ref, cfg.Schedule, logger),
		Optimization:   NewOptimizationService(ref, deps.Optimizer, deps.Locker, cfg.Optimizer.LockTTL, cfg.Schedule, logger),
	}
}
