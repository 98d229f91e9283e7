package engine

import (
	"fmt"
	"strings"
)

// ── 多学季选课计划校验 ──

// PlannedQuarter 计划中的一个学季
type PlannedQuarter struct {
	Quarter Quarter  `json:"quarter"`
	Year    int      `json:"year"`
	Courses []string `json:"courses"`
}

// PlanLimits 每学季学分与课程数限制
type PlanLimits struct {
	MaxCredits int `json:"max_credits"`
	MinCredits int `json:"min_credits"`
	MaxCourses int `json:"max_courses"`
}

// DefaultPlanLimits 默认限制
var DefaultPlanLimits = PlanLimits{MaxCredits: 24, MinCredits: 8, MaxCourses: 6}

// IssueKind 计划问题类型
type IssueKind string

const (
	IssueOverMaxCredits      IssueKind = "over_max_credits"
	IssueUnderMinCredits     IssueKind = "under_min_credits"
	IssueTooManyCourses      IssueKind = "too_many_courses"
	IssueDuplicateInQuarter  IssueKind = "duplicate_in_quarter"
	IssueDuplicateAcross     IssueKind = "duplicate_across_quarters"
	IssueMissingPrerequisite IssueKind = "missing_prerequisites"
	IssueNotOffered          IssueKind = "not_offered"
	IssueUnknownCourse       IssueKind = "unknown_course"
	IssueAlreadyCompleted    IssueKind = "already_completed"
)

// PlanIssue 一条校验问题；Position 为计划中的学季下标（从 0 开始）
type PlanIssue struct {
	Position int       `json:"position"`
	Quarter  Quarter   `json:"quarter"`
	Kind     IssueKind `json:"kind"`
	Course   string    `json:"course,omitempty"`
	Message  string    `json:"message"`
}

// PlanReport 校验结果
type PlanReport struct {
	Valid   bool        `json:"valid"`
	Credits []int       `json:"credits_per_quarter"`
	Issues  []PlanIssue `json:"issues"`
}

// ValidatePlan 校验多学季计划
//
// 先修课按学季推进：某学季的课程只能依赖之前学季（或 completed）修过的课程，
// 同一学季内的课程互不满足先修。目录中不存在的课程计 0 学分，并报告 unknown_course。
// 限制值 ≤ 0 时对应检查关闭。
func ValidatePlan(catalog *Catalog, completed []string, plan []PlannedQuarter, limits PlanLimits) PlanReport {
	report := PlanReport{Credits: make([]int, 0, len(plan)), Issues: []PlanIssue{}}
	prior := newCourseSet(completed)
	done := newCourseSet(completed)
	planned := make(map[string]int)

	for pos, pq := range plan {
		add := func(kind IssueKind, course, format string, args ...any) {
			report.Issues = append(report.Issues, PlanIssue{
				Position: pos,
				Quarter:  pq.Quarter,
				Kind:     kind,
				Course:   course,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		seen := make(courseSet)
		credits := 0
		count := 0
		for _, raw := range pq.Courses {
			code := NormalizeCode(raw)
			if code == "" {
				continue
			}
			count++
			if seen.has(code) {
				add(IssueDuplicateInQuarter, code, "%s 在同一学季重复出现", code)
				continue
			}
			seen.add(code)

			if first, dup := planned[code]; dup {
				add(IssueDuplicateAcross, code, "%s 已安排在第 %d 个学季", code, first+1)
			} else {
				planned[code] = pos
			}
			if prior.has(code) {
				add(IssueAlreadyCompleted, code, "%s 已修过", code)
			}

			course, ok := catalog.LookupCourse(code)
			if !ok {
				add(IssueUnknownCourse, code, "课程目录中不存在 %s", code)
				continue
			}
			credits += course.Credits

			var missing []string
			for _, pre := range course.Prerequisites {
				if !done.has(pre) {
					missing = append(missing, pre)
				}
			}
			if len(missing) > 0 {
				add(IssueMissingPrerequisite, code, "%s 缺少先修课程: %s", code, joinCodes(missing))
			}

			if len(course.Offered) > 0 && !offeredIn(course, pq.Quarter) {
				add(IssueNotOffered, code, "%s 不在 %s 学季开设", code, pq.Quarter)
			}
		}

		if limits.MaxCredits > 0 && credits > limits.MaxCredits {
			add(IssueOverMaxCredits, "", "学分 %d 超过上限 %d", credits, limits.MaxCredits)
		}
		if limits.MinCredits > 0 && count > 0 && credits < limits.MinCredits {
			add(IssueUnderMinCredits, "", "学分 %d 低于下限 %d", credits, limits.MinCredits)
		}
		if limits.MaxCourses > 0 && len(seen) > limits.MaxCourses {
			add(IssueTooManyCourses, "", "课程数 %d 超过上限 %d", len(seen), limits.MaxCourses)
		}

		report.Credits = append(report.Credits, credits)
		// 本学季结束后才计入已修
		for code := range seen {
			done.add(code)
		}
	}

	report.Valid = len(report.Issues) == 0
	return report
}

func offeredIn(c Course, q Quarter) bool {
	for _, o := range c.Offered {
		if strings.EqualFold(string(o), string(q)) {
			return true
		}
	}
	return false
}
