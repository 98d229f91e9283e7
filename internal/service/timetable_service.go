package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"study-strata/config"
	"study-strata/internal/dto"
	"study-strata/internal/engine"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableInvalidDay     = errors.New("星期无效")
	ErrTimetableInvalidTime    = errors.New("时间无效")
	ErrTimetableInvalidDate    = errors.New("日期无效")
	ErrTimetableICSParseFailed = errors.New("ICS 文件解析失败")
	ErrTimetableICSEmpty       = errors.New("ICS 文件中未发现有效课程事件")
)

// 默认导出 10 周（一个学季）
const defaultExportWeeks = 10

// ── TimetableService 接口 ──────────────────────────────────
//
// 课表中的课程可只给代码（从目录补全时间），也可带自定义时间。
// 网格范围、步长与计划学分限制未在请求中给出时取 schedule 配置。
// ─────────────────────────────────────────────────────────────

// TimetableService 周课表与选课计划接口
type TimetableService interface {
	// CoursesAt 查询某一时刻正在上课的课程
	CoursesAt(ctx context.Context, req *dto.SlotQueryRequest) (*dto.SlotQueryResponse, error)
	// BuildGrid 生成周课表网格与冲突列表
	BuildGrid(ctx context.Context, req *dto.GridRequest) (*dto.GridResponse, error)
	// ImportICS 导入 ICS 课表
	ImportICS(ctx context.Context, reader io.Reader) (*dto.ImportICSResponse, error)
	// ExportXLSX 导出 Excel 周课表
	ExportXLSX(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
	// ExportICS 导出 ICS 日历
	ExportICS(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
	// ValidatePlan 校验多学季选课计划
	ValidatePlan(ctx context.Context, req *dto.PlanValidateRequest) (*engine.PlanReport, error)
}

type timetableService struct {
	ref    *Reference
	cfg    config.ScheduleConfig
	loc    *time.Location
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(ref *Reference, cfg config.ScheduleConfig, logger *zap.Logger) TimetableService {
	return &timetableService{ref: ref, cfg: cfg, loc: icsLocation(), logger: logger}
}

// ════════════════════════════════════════════════════════════
// CoursesAt
// ════════════════════════════════════════════════════════════

func (s *timetableService) CoursesAt(_ context.Context, req *dto.SlotQueryRequest) (*dto.SlotQueryResponse, error) {
	courses, err := s.resolveCourses(req.Courses)
	if err != nil {
		return nil, err
	}
	day, err := engine.ParseDay(req.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimetableInvalidDay, req.Day)
	}
	minute, err := engine.ParseClock(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTimetableInvalidTime, req.Time)
	}

	at := engine.CoursesAt(courses, day, minute)
	resp := &dto.SlotQueryResponse{
		Day:     day,
		Time:    engine.FormatClock(minute),
		Courses: make([]dto.CourseResponse, 0, len(at)),
	}
	for _, c := range at {
		resp.Courses = append(resp.Courses, toCourseResponse(c))
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// BuildGrid
// ════════════════════════════════════════════════════════════

func (s *timetableService) BuildGrid(_ context.Context, req *dto.GridRequest) (*dto.GridResponse, error) {
	courses, err := s.resolveCourses(req.Courses)
	if err != nil {
		return nil, err
	}
	grid, err := s.grid(req, courses)
	if err != nil {
		return nil, err
	}
	return &dto.GridResponse{Grid: grid, Conflicts: engine.FindConflicts(courses)}, nil
}

func (s *timetableService) grid(req *dto.GridRequest, courses []engine.Course) (engine.Grid, error) {
	days := engine.Weekdays
	if len(req.Days) > 0 {
		parsed := make([]engine.Day, 0, len(req.Days))
		for _, raw := range req.Days {
			d, err := engine.ParseDay(raw)
			if err != nil {
				return engine.Grid{}, fmt.Errorf("%w: %s", ErrTimetableInvalidDay, raw)
			}
			parsed = append(parsed, d)
		}
		days = engine.SortDays(parsed)
	}

	startRaw, endRaw := s.cfg.DayStart, s.cfg.DayEnd
	if req.DayStart != "" {
		startRaw = req.DayStart
	}
	if req.DayEnd != "" {
		endRaw = req.DayEnd
	}
	dayStart, err := engine.ParseClock(startRaw)
	if err != nil {
		return engine.Grid{}, fmt.Errorf("%w: %s", ErrTimetableInvalidTime, startRaw)
	}
	dayEnd, err := engine.ParseClock(endRaw)
	if err != nil || dayEnd <= dayStart {
		return engine.Grid{}, fmt.Errorf("%w: %s", ErrTimetableInvalidTime, endRaw)
	}

	slot := s.cfg.SlotMinutes
	if req.SlotMinutes > 0 {
		slot = req.SlotMinutes
	}
	return engine.BuildGrid(courses, days, dayStart, dayEnd, slot), nil
}

// ════════════════════════════════════════════════════════════
// ImportICS
// ════════════════════════════════════════════════════════════
//
// 解析出的课程代码在目录中存在时补全名称、学分与先修信息；
// 不存在的代码保留解析结果并列入 unmatched。

func (s *timetableService) ImportICS(_ context.Context, reader io.Reader) (*dto.ImportICSResponse, error) {
	parsed, err := ParseICS(reader, s.loc)
	if err != nil {
		s.logger.Warn("ICS 解析失败", zap.Error(err))
		return nil, ErrTimetableICSParseFailed
	}
	if len(parsed) == 0 {
		return nil, ErrTimetableICSEmpty
	}

	resp := &dto.ImportICSResponse{
		Courses:   make([]dto.CourseResponse, 0, len(parsed)),
		Unmatched: []string{},
	}
	courses := make([]engine.Course, 0, len(parsed))
	for _, c := range parsed {
		if known, ok := s.ref.Catalog.LookupCourse(c.Code); ok {
			known.Days, known.StartTime, known.EndTime = c.Days, c.StartTime, c.EndTime
			c = known
		} else {
			resp.Unmatched = append(resp.Unmatched, c.Code)
		}
		courses = append(courses, c)
		resp.Courses = append(resp.Courses, toCourseResponse(c))
	}
	resp.ImportedCount = len(courses)
	resp.Conflicts = engine.FindConflicts(courses)

	s.logger.Info("ICS 课表导入完成",
		zap.Int("imported", resp.ImportedCount),
		zap.Int("unmatched", len(resp.Unmatched)),
	)
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Export
// ════════════════════════════════════════════════════════════

func (s *timetableService) ExportXLSX(_ context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	courses, err := s.resolveCourses(req.Courses)
	if err != nil {
		return nil, "", err
	}
	grid, err := s.grid(&req.GridRequest, courses)
	if err != nil {
		return nil, "", err
	}
	buf, err := buildGridWorkbook(grid, courses, engine.FindConflicts(courses), s.logger)
	if err != nil {
		return nil, "", err
	}
	return buf, "weekly_schedule.xlsx", nil
}

func (s *timetableService) ExportICS(_ context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	courses, err := s.resolveCourses(req.Courses)
	if err != nil {
		return nil, "", err
	}

	weekOf := time.Now().In(s.loc)
	if req.StartDate != "" {
		weekOf, err = time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", ErrTimetableInvalidDate, req.StartDate)
		}
	}
	weeks := req.Weeks
	if weeks <= 0 {
		weeks = defaultExportWeeks
	}

	content := BuildICS(courses, weekOf, weeks, s.loc)
	return bytes.NewBufferString(content), "weekly_schedule.ics", nil
}

// ════════════════════════════════════════════════════════════
// ValidatePlan
// ════════════════════════════════════════════════════════════

func (s *timetableService) ValidatePlan(_ context.Context, req *dto.PlanValidateRequest) (*engine.PlanReport, error) {
	plan := make([]engine.PlannedQuarter, 0, len(req.Quarters))
	for _, q := range req.Quarters {
		quarter, err := engine.ParseQuarter(q.Quarter)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuarter, q.Quarter)
		}
		plan = append(plan, engine.PlannedQuarter{Quarter: quarter, Year: q.Year, Courses: q.Courses})
	}

	limits := engine.PlanLimits{
		MaxCredits: s.cfg.MaxCreditsPerQuarter,
		MinCredits: s.cfg.MinCreditsPerQuarter,
		MaxCourses: s.cfg.MaxCoursesPerQuarter,
	}
	if req.Limits != nil {
		limits = *req.Limits
	}

	report := engine.ValidatePlan(s.ref.Catalog, req.CompletedCourses, plan, limits)
	return &report, nil
}

// ── 辅助函数 ──

// resolveCourses 课表输入 → 引擎课程
// 未给出星期的课程从目录补全；给出星期时以请求为准，名称与学分缺省取目录
func (s *timetableService) resolveCourses(inputs []dto.ScheduledCourseInput) ([]engine.Course, error) {
	out := make([]engine.Course, 0, len(inputs))
	for _, in := range inputs {
		code := engine.NormalizeCode(in.Code)
		known, found := s.ref.Catalog.LookupCourse(code)

		if len(in.Days) == 0 {
			if !found {
				return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, code)
			}
			out = append(out, known)
			continue
		}

		c := engine.Course{Code: code, Name: in.Name, Credits: in.Credits}
		if found {
			if c.Name == "" {
				c.Name = known.Name
			}
			if c.Credits == 0 {
				c.Credits = known.Credits
			}
			c.Type, c.Difficulty = known.Type, known.Difficulty
			c.Prerequisites, c.Offered = known.Prerequisites, known.Offered
		}
		for _, raw := range in.Days {
			d, err := engine.ParseDay(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s", ErrTimetableInvalidDay, code, raw)
			}
			c.Days = append(c.Days, d)
		}
		start, err := engine.ParseClock(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s", ErrTimetableInvalidTime, code, in.StartTime)
		}
		end, err := engine.ParseClock(in.EndTime)
		if err != nil || end <= start {
			return nil, fmt.Errorf("%w: %s %s", ErrTimetableInvalidTime, code, in.EndTime)
		}
		c.StartTime, c.EndTime = start, end
		out = append(out, c)
	}
	return out, nil
}
