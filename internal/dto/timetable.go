package dto

import "study-strata/internal/engine"

// ── 周课表 ──

// ScheduledCourseInput 课表中的课程
// 仅给出 code 时从课程目录补全时间与学分
type ScheduledCourseInput struct {
	Code      string   `json:"code"       binding:"required,max=20"`
	Name      string   `json:"name"       binding:"omitempty,max=200"`
	Credits   int      `json:"credits"    binding:"omitempty,min=0,max=20"`
	Days      []string `json:"days"       binding:"omitempty,dive,max=10"`
	StartTime string   `json:"start_time" binding:"omitempty"`
	EndTime   string   `json:"end_time"   binding:"omitempty"`
}

// SlotQueryRequest 时段查询
type SlotQueryRequest struct {
	Courses []ScheduledCourseInput `json:"courses" binding:"required,dive"`
	Day     string                 `json:"day"     binding:"required"`
	Time    string                 `json:"time"    binding:"required"`
}

// SlotQueryResponse 时段查询结果
type SlotQueryResponse struct {
	Day     engine.Day       `json:"day"`
	Time    string           `json:"time"`
	Courses []CourseResponse `json:"courses"`
}

// GridRequest 周课表网格请求；未给出的字段取服务端配置
type GridRequest struct {
	Courses     []ScheduledCourseInput `json:"courses"      binding:"required,dive"`
	Days        []string               `json:"days"         binding:"omitempty"`
	DayStart    string                 `json:"day_start"    binding:"omitempty"`
	DayEnd      string                 `json:"day_end"      binding:"omitempty"`
	SlotMinutes int                    `json:"slot_minutes" binding:"omitempty,min=5,max=240"`
}

// GridResponse 周课表网格与冲突
type GridResponse struct {
	Grid      engine.Grid       `json:"grid"`
	Conflicts []engine.Conflict `json:"conflicts"`
}

// ExportRequest 课表导出请求
// StartDate 为学季第一周的任意一天（YYYY-MM-DD），仅 ICS 导出使用
type ExportRequest struct {
	GridRequest
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	Weeks     int    `json:"weeks"      binding:"omitempty,min=1,max=20"`
}

// ImportICSResponse ICS 导入结果
type ImportICSResponse struct {
	ImportedCount int               `json:"imported_count"`
	Courses       []CourseResponse  `json:"courses"`
	Conflicts     []engine.Conflict `json:"conflicts"`
	Unmatched     []string          `json:"unmatched"`
}

// ── 选课计划 ──

// PlannedQuarterInput 计划中的一个学季
type PlannedQuarterInput struct {
	Quarter string   `json:"quarter" binding:"required"`
	Year    int      `json:"year"    binding:"omitempty,min=2000,max=2100"`
	Courses []string `json:"courses" binding:"omitempty,dive,max=20"`
}

// PlanValidateRequest 计划校验请求；Limits 为空时取服务端配置
type PlanValidateRequest struct {
	CompletedCourses []string              `json:"completed_courses" binding:"omitempty,dive,max=20"`
	Quarters         []PlannedQuarterInput `json:"quarters"          binding:"required,min=1,max=24,dive"`
	Limits           *engine.PlanLimits    `json:"limits"`
}
