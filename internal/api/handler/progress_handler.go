package handler

import (
	"github.com/gin-gonic/gin"

	"study-strata/internal/dto"
	"study-strata/internal/service"
	"study-strata/pkg/response"
)

// ProgressHandler 学业进度模块 HTTP 处理器
type ProgressHandler struct {
	svc service.ProgressService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(svc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// Evaluate 学业进度
// POST /api/v1/progress
//
// 专业不在目录中时仍返回 200，data.available=false
func (h *ProgressHandler) Evaluate(c *gin.Context) {
	var req dto.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.Evaluate(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}
