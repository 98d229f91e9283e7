package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Recommend 生成选课建议
//
// 输出顺序即规则表声明顺序，不按优先级排序；需要时调用 SortByPriority。
// 目标课程已修过的规则永不触发，同一门课程最多建议一次。
// 新生且带 AP 成绩时走 AP 路径（按课程链推算起点），不再评估普通新生规则。
// available 仅用于补充课程名称与学分，不决定建议哪些课程。
func Recommend(rules *RuleTable, ap *APTable, profile StudentProfile, available []Course) []CourseRecommendation {
	var recs []CourseRecommendation
	if profile.Year == Freshman && len(profile.APScores) > 0 {
		recs = apStartingPoints(rules, ap, profile)
	} else {
		recs = applyRules(rules, profile)
	}
	return annotate(recs, available)
}

// applyRules 按声明顺序逐条求值
func applyRules(rules *RuleTable, profile StudentProfile) []CourseRecommendation {
	done := newCourseSet(profile.CompletedCourses)
	emitted := make(courseSet)
	out := []CourseRecommendation{}

	for _, r := range rules.RulesFor(profile.Year, profile.Major) {
		code := r.Action.Course
		if done.has(code) || emitted.has(code) {
			continue
		}
		if !r.When.Matches(done) {
			continue
		}
		emitted.add(code)
		out = append(out, CourseRecommendation{
			CourseCode: code,
			Reason:     r.Action.Reason,
			Priority:   r.Action.Priority,
			Quarter:    r.Action.Quarter,
		})
	}
	return out
}

// apStartingPoints 新生 AP 路径：每条课程链取第一门未完成的课程作为起点
// 起点之前有被 AP 替代的课程时使用 AP 理由，否则使用无 AP 理由
func apStartingPoints(rules *RuleTable, ap *APTable, profile StudentProfile) []CourseRecommendation {
	grant := ap.Resolve(profile.APScores)
	done := newCourseSet(profile.CompletedCourses, grant.Courses)
	emitted := make(courseSet)
	out := []CourseRecommendation{}

	for _, track := range rules.TracksFor(profile.Major) {
		start := -1
		for i, code := range track.Sequence {
			if !done.has(code) {
				start = i
				break
			}
		}
		if start < 0 {
			continue
		}
		code := track.Sequence[start]
		if emitted.has(code) {
			continue
		}

		var skipped []string
		for _, prior := range track.Sequence[:start] {
			if grant.Grants(prior) {
				skipped = append(skipped, prior)
			}
		}

		reason := fmt.Sprintf(rules.noAPReason, code, track.Name)
		if len(skipped) > 0 {
			reason = fmt.Sprintf(rules.apSkipReason, code, joinCodes(skipped), strings.Join(examsGranting(ap, grant, skipped), ", "))
		}

		emitted.add(code)
		out = append(out, CourseRecommendation{
			CourseCode: code,
			Reason:     reason,
			Priority:   track.Priority,
			Quarter:    track.Quarter,
		})
	}
	return out
}

// examsGranting 授予了 codes 中任一课程的达标考试（保持 grant.Exams 顺序）
func examsGranting(ap *APTable, grant APGrant, codes []string) []string {
	want := newCourseSet(codes)
	var out []string
	for _, exam := range grant.Exams {
		conv, ok := ap.Lookup(exam)
		if !ok {
			continue
		}
		for _, c := range conv.EquivalentCourses {
			if want.has(c) {
				out = append(out, conv.ExamName)
				break
			}
		}
	}
	return out
}

// annotate 用可选课程列表补充名称与学分
func annotate(recs []CourseRecommendation, available []Course) []CourseRecommendation {
	if len(available) == 0 {
		return recs
	}
	byCode := make(map[string]Course, len(available))
	for _, c := range available {
		byCode[NormalizeCode(c.Code)] = c
	}
	for i := range recs {
		if c, ok := byCode[recs[i].CourseCode]; ok {
			recs[i].Title = c.Name
			recs[i].Credits = c.Credits
		}
	}
	return recs
}

// SortByPriority 按 high → medium → low 稳定排序，返回新切片
func SortByPriority(recs []CourseRecommendation) []CourseRecommendation {
	out := make([]CourseRecommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() < out[j].Priority.rank()
	})
	return out
}
