package handler

import "study-strata/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog      *CatalogHandler
	Progress     *ProgressHandler
	Advisor      *AdvisorHandler
	Timetable    *TimetableHandler
	Optimization *OptimizationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Catalog:      NewCatalogHandler(svc.Catalog),
		Progress:     NewProgressHandler(svc.Progress),
		Advisor:      NewAdvisorHandler(svc.Recommendation),
		Timetable:    NewTimetableHandler(svc.Timetable),
		Optimization: NewOptimizationHandler(svc.Optimization),
	}
}
