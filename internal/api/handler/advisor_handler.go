package handler

import (
	"github.com/gin-gonic/gin"

	"study-strata/internal/dto"
	"study-strata/internal/service"
	"study-strata/pkg/response"
)

// AdvisorHandler 选课建议模块 HTTP 处理器
type AdvisorHandler struct {
	svc service.RecommendationService
}

// NewAdvisorHandler 创建 AdvisorHandler
func NewAdvisorHandler(svc service.RecommendationService) *AdvisorHandler {
	return &AdvisorHandler{svc: svc}
}

// Recommend 选课建议
// POST /api/v1/recommendations?sort=priority
func (h *AdvisorHandler) Recommend(c *gin.Context) {
	var req dto.StudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sortBy := c.Query("sort")
	if sortBy != "" && sortBy != "priority" {
		response.BadRequest(c, 22001, "sort 仅支持 priority")
		return
	}

	response.OK(c, h.svc.Recommend(c.Request.Context(), &req, sortBy == "priority"))
}

// Greeting 顾问开场白
// POST /api/v1/advisor/greeting
func (h *AdvisorHandler) Greeting(c *gin.Context) {
	var req dto.StudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	response.OK(c, h.svc.Greeting(c.Request.Context(), &req))
}
