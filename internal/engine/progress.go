package engine

import "math"

// Evaluate 计算学位进度
//
// completed 应已由调用方并入 AP 授予的课程。
// 专业未定义要求时返回 ok=false（"不可用"），不视为错误。
//
// 每个类别按目录顺序计算：
//  1. 必修：已修 = required ∩ completed，剩余 = required − completed
//  2. 选修：已修 = pool ∩ completed（全部列出），剩余 = pool − completed
//  3. 学分：已修必修学分 + 按选修池顺序取前 minElectives 门已修选修的学分
//  4. 进度：minCredits > 0 时为 min(100, 学分/minCredits*100)，否则必修修完为 100、未修完为 0
//  5. 完成：必修全部修完，且 minElectives 为 0 或已修选修数 ≥ minElectives
func Evaluate(catalog *Catalog, major string, completed []string) (DegreeProgress, bool) {
	req, ok := catalog.LookupRequirements(major)
	if !ok {
		return DegreeProgress{}, false
	}

	done := newCourseSet(completed)
	result := DegreeProgress{
		Major:           req.Major,
		RequiredCredits: req.TotalCredits,
		Categories:      make([]CategoryProgress, 0, len(req.Categories)),
	}

	for _, cat := range req.Categories {
		cp := evaluateCategory(catalog, cat, done)
		result.TotalCredits += cp.CompletedCredits
		result.Categories = append(result.Categories, cp)
	}

	result.OverallProgress = overallProgress(result)
	return result, true
}

func evaluateCategory(catalog *Catalog, cat RequirementCategory, done courseSet) CategoryProgress {
	cp := CategoryProgress{
		Name:               cat.Name,
		Description:        cat.Description,
		MinCredits:         cat.MinCredits,
		MinElectives:       cat.MinElectives,
		CompletedRequired:  []string{},
		RemainingRequired:  []string{},
		CompletedElectives: []string{},
		RemainingElectives: []string{},
	}

	for _, code := range cat.RequiredCourses {
		if done.has(code) {
			cp.CompletedRequired = append(cp.CompletedRequired, code)
			cp.CompletedCredits += catalog.credits(code)
		} else {
			cp.RemainingRequired = append(cp.RemainingRequired, code)
		}
	}

	counted := 0
	for _, code := range cat.ElectivePool {
		if !done.has(code) {
			cp.RemainingElectives = append(cp.RemainingElectives, code)
			continue
		}
		cp.CompletedElectives = append(cp.CompletedElectives, code)
		// 超出 minElectives 的选修不再计入类别学分
		if counted < cat.MinElectives {
			cp.CompletedCredits += catalog.credits(code)
			counted++
		}
	}

	switch {
	case cat.MinCredits > 0:
		cp.Progress = percent(cp.CompletedCredits, cat.MinCredits)
	case len(cp.RemainingRequired) == 0:
		cp.Progress = 100
	default:
		cp.Progress = 0
	}

	cp.IsComplete = len(cp.RemainingRequired) == 0 &&
		(cat.MinElectives <= 0 || len(cp.CompletedElectives) >= cat.MinElectives)

	return cp
}

// overallProgress 总学分 / 专业总学分；总学分目标为 0 时以各类别是否全部完成为准
func overallProgress(p DegreeProgress) float64 {
	if p.RequiredCredits > 0 {
		return percent(p.TotalCredits, p.RequiredCredits)
	}
	for _, c := range p.Categories {
		if !c.IsComplete {
			return 0
		}
	}
	return 100
}

// percent 计算百分比，截断到 [0,100] 并保留一位小数
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	v := float64(part) / float64(whole) * 100
	if v > 100 {
		v = 100
	}
	if v < 0 {
		v = 0
	}
	return math.Round(v*10) / 10
}
