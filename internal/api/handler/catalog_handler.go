package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"study-strata/internal/dto"
	"study-strata/internal/service"
	"study-strata/pkg/response"
)

// CatalogHandler 课程目录模块 HTTP 处理器
type CatalogHandler struct {
	svc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ListCourses 课程列表
// GET /api/v1/courses?type=core&quarter=fall&keyword=data&page=1&page_size=20
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var q dto.CourseListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.svc.ListCourses(c.Request.Context(), &q)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKPage(c, list, total, q.GetPage(), q.GetPageSize())
}

// GetCourse 课程详情
// GET /api/v1/courses/:code
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.svc.GetCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, course)
}

// GetPrerequisites 课程先修课
// GET /api/v1/courses/:code/prerequisites
func (h *CatalogHandler) GetPrerequisites(c *gin.Context) {
	list, err := h.svc.GetPrerequisites(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, list)
}

// GetDependents 后续课程
// GET /api/v1/courses/:code/dependents
func (h *CatalogHandler) GetDependents(c *gin.Context) {
	list, err := h.svc.GetDependents(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, list)
}

// ListMajors 专业列表
// GET /api/v1/majors
func (h *CatalogHandler) ListMajors(c *gin.Context) {
	response.OK(c, h.svc.ListMajors(c.Request.Context()))
}

// GetRequirements 专业毕业要求
// GET /api/v1/majors/:major/requirements
func (h *CatalogHandler) GetRequirements(c *gin.Context) {
	req, err := h.svc.GetRequirements(c.Request.Context(), c.Param("major"))
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, req)
}

// ResolveAP AP 成绩换算
// POST /api/v1/ap/resolve
func (h *CatalogHandler) ResolveAP(c *gin.Context) {
	var req dto.APResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	response.OK(c, h.svc.ResolveAP(c.Request.Context(), &req))
}

func handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20001, "课程不存在")
	case errors.Is(err, service.ErrMajorNotFound):
		response.NotFound(c, 20002, "专业不存在")
	case errors.Is(err, service.ErrInvalidQuarter):
		response.BadRequest(c, 20003, "学季无效")
	default:
		response.InternalError(c)
	}
}
