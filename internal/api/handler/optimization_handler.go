package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"study-strata/internal/dto"
	"study-strata/internal/service"
	"study-strata/pkg/response"
)

// OptimizationHandler 排课优化模块 HTTP 处理器
type OptimizationHandler struct {
	svc service.OptimizationService
}

// NewOptimizationHandler 创建 OptimizationHandler
func NewOptimizationHandler(svc service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{svc: svc}
}

// Optimize 排课优化
// POST /api/v1/schedules/optimize
func (h *OptimizationHandler) Optimize(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Optimize(c.Request.Context(), studentID, &req)
	if err != nil {
		handleOptimizationError(c, err)
		return
	}
	response.OK(c, resp)
}

func handleOptimizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGraduationDeadlinePassed):
		response.UnprocessableEntity(c, 24001, "目标毕业学季不晚于当前学季")
	case errors.Is(err, service.ErrOptimizationInFlight):
		response.Conflict(c, 24002, "已有排课优化请求正在处理")
	case errors.Is(err, service.ErrOptimizationRejected):
		response.BadGateway(c, 24003, "排课优化失败", err.Error())
	case errors.Is(err, service.ErrOptimizerUnavailable):
		response.ServiceUnavailable(c, 24004, "排课优化服务暂不可用，请稍后重试")
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrInvalidQuarter),
		errors.Is(err, service.ErrTimetableInvalidDay),
		errors.Is(err, service.ErrTimetableInvalidTime):
		handleTimetableError(c, err)
	default:
		response.InternalError(c)
	}
}
