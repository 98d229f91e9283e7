package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"study-strata/internal/dto"
	"study-strata/internal/engine"
)

// ── 课程目录模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrMajorNotFound  = errors.New("专业不存在")
	ErrInvalidQuarter = errors.New("学季无效")
)

// CatalogService 课程目录与 AP 换算查询接口
type CatalogService interface {
	// ListCourses 分页查询课程，返回当前页与总数
	ListCourses(ctx context.Context, q *dto.CourseListQuery) ([]dto.CourseResponse, int64, error)
	// GetCourse 按课程代码查询
	GetCourse(ctx context.Context, code string) (*dto.CourseResponse, error)
	// GetPrerequisites 课程的直接先修课
	GetPrerequisites(ctx context.Context, code string) ([]dto.CourseResponse, error)
	// GetDependents 以该课程为先修课的课程
	GetDependents(ctx context.Context, code string) ([]dto.CourseResponse, error)
	// ListMajors 列出全部专业
	ListMajors(ctx context.Context) []dto.MajorResponse
	// GetRequirements 查询专业毕业要求
	GetRequirements(ctx context.Context, major string) (*engine.DegreeRequirements, error)
	// ResolveAP AP 成绩换算
	ResolveAP(ctx context.Context, req *dto.APResolveRequest) engine.APGrant
}

type catalogService struct {
	ref    *Reference
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(ref *Reference, logger *zap.Logger) CatalogService {
	return &catalogService{ref: ref, logger: logger}
}

func (s *catalogService) ListCourses(_ context.Context, q *dto.CourseListQuery) ([]dto.CourseResponse, int64, error) {
	var quarter engine.Quarter
	if q.Quarter != "" {
		parsed, err := engine.ParseQuarter(q.Quarter)
		if err != nil {
			return nil, 0, ErrInvalidQuarter
		}
		quarter = parsed
	}
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))

	var matched []engine.Course
	for _, c := range s.ref.Catalog.Courses() {
		if q.Type != "" && string(c.Type) != q.Type {
			continue
		}
		if quarter != "" && !offers(c, quarter) {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(c.Code), keyword) &&
			!strings.Contains(strings.ToLower(c.Name), keyword) {
			continue
		}
		matched = append(matched, c)
	}

	total := int64(len(matched))
	start, end := q.Bounds(len(matched))
	list := make([]dto.CourseResponse, 0, end-start)
	for _, c := range matched[start:end] {
		list = append(list, toCourseResponse(c))
	}
	return list, total, nil
}

func (s *catalogService) GetCourse(_ context.Context, code string) (*dto.CourseResponse, error) {
	c, ok := s.ref.Catalog.LookupCourse(code)
	if !ok {
		s.logger.Debug("课程不存在", zap.String("code", code))
		return nil, ErrCourseNotFound
	}
	resp := toCourseResponse(c)
	return &resp, nil
}

func (s *catalogService) GetPrerequisites(_ context.Context, code string) ([]dto.CourseResponse, error) {
	return s.related(code, s.ref.Catalog.Prerequisites)
}

func (s *catalogService) GetDependents(_ context.Context, code string) ([]dto.CourseResponse, error) {
	return s.related(code, s.ref.Catalog.Dependents)
}

func (s *catalogService) related(code string, lookup func(string) ([]engine.Course, bool)) ([]dto.CourseResponse, error) {
	courses, ok := lookup(code)
	if !ok {
		s.logger.Debug("课程不存在", zap.String("code", code))
		return nil, ErrCourseNotFound
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseResponse(c))
	}
	return out, nil
}

func (s *catalogService) ListMajors(_ context.Context) []dto.MajorResponse {
	majors := s.ref.Catalog.Majors()
	out := make([]dto.MajorResponse, 0, len(majors))
	for _, m := range majors {
		req, _ := s.ref.Catalog.LookupRequirements(m)
		out = append(out, dto.MajorResponse{
			Major:         req.Major,
			TotalCredits:  req.TotalCredits,
			CategoryCount: len(req.Categories),
		})
	}
	return out
}

func (s *catalogService) GetRequirements(_ context.Context, major string) (*engine.DegreeRequirements, error) {
	req, ok := s.ref.Catalog.LookupRequirements(major)
	if !ok {
		s.logger.Debug("专业不存在", zap.String("major", major))
		return nil, ErrMajorNotFound
	}
	return &req, nil
}

func (s *catalogService) ResolveAP(_ context.Context, req *dto.APResolveRequest) engine.APGrant {
	return s.ref.AP.Resolve(dto.ToEngineScores(req.Scores))
}

// ── 辅助函数 ──

func offers(c engine.Course, q engine.Quarter) bool {
	if len(c.Offered) == 0 {
		return true
	}
	for _, o := range c.Offered {
		if o == q {
			return true
		}
	}
	return false
}

func toCourseResponse(c engine.Course) dto.CourseResponse {
	resp := dto.CourseResponse{
		Code:          c.Code,
		Name:          c.Name,
		Credits:       c.Credits,
		Type:          string(c.Type),
		Difficulty:    string(c.Difficulty),
		Days:          make([]string, 0, len(c.Days)),
		Prerequisites: nonNil(c.Prerequisites),
		Offered:       make([]string, 0, len(c.Offered)),
	}
	for _, d := range c.Days {
		resp.Days = append(resp.Days, string(d))
	}
	for _, q := range c.Offered {
		resp.Offered = append(resp.Offered, string(q))
	}
	if c.HasSchedule() {
		resp.StartTime = engine.FormatClock(c.StartTime)
		resp.EndTime = engine.FormatClock(c.EndTime)
	}
	return resp
}
