package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"study-strata/internal/dto"
	"study-strata/internal/service"
	"study-strata/pkg/response"
)

// ICS 上传文件大小上限
const maxICSSize = 2 << 20

// TimetableHandler 周课表与选课计划模块 Handler
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// CoursesAt 查询某一时刻正在上课的课程
// POST /api/v1/timetable/slots
func (h *TimetableHandler) CoursesAt(c *gin.Context) {
	var req dto.SlotQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.CoursesAt(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// BuildGrid 周课表网格
// POST /api/v1/timetable/grid
func (h *TimetableHandler) BuildGrid(c *gin.Context) {
	var req dto.GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.BuildGrid(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// ImportICS 导入 ICS 课表
// POST /api/v1/timetable/import
// multipart/form-data, field="file"
func (h *TimetableHandler) ImportICS(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 23000, "请上传 ICS 文件")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".ics") {
		response.BadRequest(c, 23000, "仅支持 .ics 文件")
		return
	}
	if fh.Size > maxICSSize {
		response.BadRequest(c, 23000, "ICS 文件过大")
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	resp, err := h.svc.ImportICS(c.Request.Context(), file)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, resp)
}

// Export 导出周课表
// POST /api/v1/timetable/export?format=xlsx|ics
func (h *TimetableHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	var (
		contentType string
		export      = h.svc.ExportXLSX
	)
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "ics":
		contentType = "text/calendar; charset=utf-8"
		export = h.svc.ExportICS
	default:
		response.BadRequest(c, 23006, "format 仅支持 xlsx 或 ics")
		return
	}

	buf, filename, err := export(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.Attachment(c, filename, contentType, buf.Bytes())
}

// ValidatePlan 校验多学季选课计划
// POST /api/v1/plans/validate
func (h *TimetableHandler) ValidatePlan(c *gin.Context) {
	var req dto.PlanValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	report, err := h.svc.ValidatePlan(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, report)
}

func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 20001, "课程不存在", err.Error())
	case errors.Is(err, service.ErrInvalidQuarter):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20003, "学季无效", err.Error())
	case errors.Is(err, service.ErrTimetableInvalidDay):
		response.ErrorWithDetails(c, http.StatusBadRequest, 23001, "星期无效", err.Error())
	case errors.Is(err, service.ErrTimetableInvalidTime):
		response.ErrorWithDetails(c, http.StatusBadRequest, 23002, "时间无效", err.Error())
	case errors.Is(err, service.ErrTimetableInvalidDate):
		response.ErrorWithDetails(c, http.StatusBadRequest, 23003, "日期无效", err.Error())
	case errors.Is(err, service.ErrTimetableICSParseFailed):
		response.BadRequest(c, 23004, "ICS 文件解析失败")
	case errors.Is(err, service.ErrTimetableICSEmpty):
		response.BadRequest(c, 23005, "ICS 文件中未发现有效课程事件")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
