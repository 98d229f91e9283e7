package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog 课程目录 + 专业要求目录
// 进程启动时构建一次，之后只读，可被多个 goroutine 并发读取
type Catalog struct {
	courses  map[string]Course
	programs map[string]DegreeRequirements
	majors   []string
}

// NewCatalog 校验并构建目录
//
// 校验规则：
//   - 课程代码唯一且非空，学分为正
//   - 带时间的课程需满足 startTime < endTime
//   - 类别 minCredits、minElectives 不为负
//   - TotalCredits 为 0 时取各类别 minCredits 之和
func NewCatalog(courses []Course, programs []DegreeRequirements) (*Catalog, error) {
	c := &Catalog{
		courses:  make(map[string]Course, len(courses)),
		programs: make(map[string]DegreeRequirements, len(programs)),
	}

	for _, course := range courses {
		course.Code = NormalizeCode(course.Code)
		if course.Code == "" {
			return nil, fmt.Errorf("课程代码不能为空: %q", course.Name)
		}
		if _, dup := c.courses[course.Code]; dup {
			return nil, fmt.Errorf("课程代码重复: %s", course.Code)
		}
		if course.Credits <= 0 {
			return nil, fmt.Errorf("课程 %s 学分必须为正: %d", course.Code, course.Credits)
		}
		if len(course.Days) > 0 && course.StartTime >= course.EndTime {
			return nil, fmt.Errorf("课程 %s 时间区间无效: %s-%s",
				course.Code, FormatClock(course.StartTime), FormatClock(course.EndTime))
		}
		course.Prerequisites = NormalizeCodes(course.Prerequisites)
		c.courses[course.Code] = course
	}

	for _, p := range programs {
		key := majorKey(p.Major)
		if key == "" {
			return nil, fmt.Errorf("专业名称不能为空")
		}
		if _, dup := c.programs[key]; dup {
			return nil, fmt.Errorf("专业重复: %s", p.Major)
		}

		cats := make([]RequirementCategory, 0, len(p.Categories))
		sum := 0
		for _, cat := range p.Categories {
			if cat.MinCredits < 0 || cat.MinElectives < 0 {
				return nil, fmt.Errorf("专业 %s 类别 %s 的最低要求不能为负", p.Major, cat.Name)
			}
			cat.RequiredCourses = NormalizeCodes(cat.RequiredCourses)
			cat.ElectivePool = NormalizeCodes(cat.ElectivePool)
			sum += cat.MinCredits
			cats = append(cats, cat)
		}
		p.Categories = cats
		if p.TotalCredits <= 0 {
			p.TotalCredits = sum
		}

		c.programs[key] = p
		c.majors = append(c.majors, p.Major)
	}
	sort.Strings(c.majors)

	return c, nil
}

// LookupCourse 按代码查询课程；未找到返回 ok=false
func (c *Catalog) LookupCourse(code string) (Course, bool) {
	course, ok := c.courses[NormalizeCode(code)]
	return course, ok
}

// LookupRequirements 按专业查询毕业要求；未找到返回 ok=false
func (c *Catalog) LookupRequirements(major string) (DegreeRequirements, bool) {
	p, ok := c.programs[majorKey(major)]
	return p, ok
}

// Majors 已定义要求的专业名（字典序）
func (c *Catalog) Majors() []string {
	out := make([]string, len(c.majors))
	copy(out, c.majors)
	return out
}

// Courses 全部课程（按代码排序）
func (c *Catalog) Courses() []Course {
	out := make([]Course, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// credits 课程学分；目录中不存在的课程计 0
// Prerequisites 课程的直接先修课（按声明顺序，目录中不存在的代码跳过）
func (c *Catalog) Prerequisites(code string) ([]Course, bool) {
	course, ok := c.LookupCourse(code)
	if !ok {
		return nil, false
	}
	out := make([]Course, 0, len(course.Prerequisites))
	for _, p := range course.Prerequisites {
		if pre, found := c.LookupCourse(p); found {
			out = append(out, pre)
		}
	}
	return out, true
}

// Dependents 直接以该课程为先修课的课程，按代码排序
func (c *Catalog) Dependents(code string) ([]Course, bool) {
	if _, ok := c.LookupCourse(code); !ok {
		return nil, false
	}
	key := NormalizeCode(code)
	out := []Course{}
	for _, course := range c.Courses() {
		for _, p := range course.Prerequisites {
			if NormalizeCode(p) == key {
				out = append(out, course)
				break
			}
		}
	}
	return out, true
}

func (c *Catalog) credits(code string) int {
	return c.courses[code].Credits
}

// majorKey 专业名大小写、空白不敏感
func majorKey(major string) string {
	return strings.ToLower(strings.Join(strings.Fields(major), " "))
}
