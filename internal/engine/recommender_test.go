package engine

import (
	"reflect"
	"strings"
	"testing"
)

// ════════════════════════════════════════════════════════════
// AP 换算
// ════════════════════════════════════════════════════════════

func TestResolve_QualifyingExam(t *testing.T) {
	ap := mustAPTable(t)

	g := ap.Resolve([]APScore{{ExamName: "AP Computer Science A", Score: 5}})
	if !equalStrings(g.Courses, []string{"CS31"}) {
		t.Errorf("granted = %v", g.Courses)
	}
	if g.Credits != 8 {
		t.Errorf("credits = %d, 期望 8", g.Credits)
	}
	if !g.Grants("cs31") {
		t.Error("Grants 应对代码大小写不敏感")
	}
}

func TestResolve_BelowThresholdAndUnknownExam(t *testing.T) {
	ap := mustAPTable(t)

	g := ap.Resolve([]APScore{
		{ExamName: "AP Computer Science A", Score: 2},
		{ExamName: "AP Underwater Basket Weaving", Score: 5},
	})
	if len(g.Courses) != 0 || g.Credits != 0 || len(g.Exams) != 0 {
		t.Errorf("不应授予任何学分: %+v", g)
	}
}

func TestResolve_DuplicateExamTakesBestScoreOnce(t *testing.T) {
	ap := mustAPTable(t)

	g := ap.Resolve([]APScore{
		{ExamName: "AP Computer Science A", Score: 2},
		{ExamName: "ap computer science a", Score: 4},
	})
	if g.Credits != 8 {
		t.Errorf("同一考试只计一次, credits = %d", g.Credits)
	}
	if !equalStrings(g.Exams, []string{"AP Computer Science A"}) {
		t.Errorf("exams = %v", g.Exams)
	}
}

func TestResolve_OverlappingExamsAndOrderIndependence(t *testing.T) {
	ap := mustAPTable(t)
	scores := []APScore{
		{ExamName: "AP Calculus AB", Score: 5},
		{ExamName: "AP Calculus BC", Score: 4},
		{ExamName: "AP Computer Science A", Score: 3},
	}
	reversed := []APScore{scores[2], scores[1], scores[0]}

	a, b := ap.Resolve(scores), ap.Resolve(reversed)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("结果应与输入顺序无关: %+v vs %+v", a, b)
	}
	if !equalStrings(a.Courses, []string{"CS31", "MATH31A", "MATH31B"}) {
		t.Errorf("课程应去重: %v", a.Courses)
	}
	if a.Credits != 20 {
		t.Errorf("学分按考试累加, 期望 20, 实际 %d", a.Credits)
	}
}

func TestNewAPTable_RejectsDuplicateExam(t *testing.T) {
	_, err := NewAPTable([]APConversion{
		{ExamName: "AP Calculus AB", MinScore: 3},
		{ExamName: "AP  calculus ab", MinScore: 4},
	})
	if err == nil {
		t.Error("同一考试多个分数线应报错")
	}
}

func TestEnrichCompleted(t *testing.T) {
	got := EnrichCompleted([]string{"MATH31A", "cs32"}, APGrant{Courses: []string{"CS31", "MATH31A"}})
	if !equalStrings(got, []string{"CS31", "CS32", "MATH31A"}) {
		t.Errorf("EnrichCompleted = %v", got)
	}
}

// ════════════════════════════════════════════════════════════
// 推荐引擎
// ════════════════════════════════════════════════════════════

func codesOf(recs []CourseRecommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.CourseCode)
	}
	return out
}

func TestRecommend_FreshmanWithoutAP(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	recs := Recommend(rt, ap, StudentProfile{Year: Freshman, Major: "Computer Science"}, nil)
	if !equalStrings(codesOf(recs), []string{"CS31", "MATH31A"}) {
		t.Fatalf("建议 = %v", codesOf(recs))
	}
	if recs[0].Reason != "start programming" || recs[0].Quarter != Fall {
		t.Errorf("首条建议 = %+v", recs[0])
	}
}

func TestRecommend_FreshmanAPSkipsGrantedCourse(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	profile := StudentProfile{
		Year:     Freshman,
		Major:    "Computer Science",
		APScores: []APScore{{ExamName: "AP Computer Science A", Score: 5}},
	}
	recs := Recommend(rt, ap, profile, nil)

	if !equalStrings(codesOf(recs), []string{"CS32", "MATH31A"}) {
		t.Fatalf("建议 = %v", codesOf(recs))
	}
	cs32 := recs[0]
	if cs32.Priority != PriorityHigh || cs32.Quarter != Fall {
		t.Errorf("CS32 建议 = %+v", cs32)
	}
	if !strings.Contains(cs32.Reason, "AP Computer Science A") || !strings.Contains(cs32.Reason, "CS31") {
		t.Errorf("CS32 理由应说明 AP 学分: %q", cs32.Reason)
	}
	if !strings.HasPrefix(recs[1].Reason, "No AP credit") {
		t.Errorf("无 AP 覆盖的课程链应使用普通理由: %q", recs[1].Reason)
	}
}

func TestRecommend_FreshmanAPBelowThresholdStartsAtBeginning(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	profile := StudentProfile{
		Year:     Freshman,
		Major:    "Computer Science",
		APScores: []APScore{{ExamName: "AP Computer Science A", Score: 2}},
	}
	recs := Recommend(rt, ap, profile, nil)
	if !equalStrings(codesOf(recs), []string{"CS31", "MATH31A"}) {
		t.Fatalf("建议 = %v", codesOf(recs))
	}
	for _, r := range recs {
		if strings.Contains(r.Reason, "AP credit (") {
			t.Errorf("未达标不应出现 AP 理由: %q", r.Reason)
		}
	}
}

func TestRecommend_FreshmanAPCompletedTrackEmitsNothing(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	profile := StudentProfile{
		Year:             Freshman,
		Major:            "Computer Science",
		CompletedCourses: []string{"CS32", "CS33"},
		APScores:         []APScore{{ExamName: "AP Calculus BC", Score: 5}, {ExamName: "AP Computer Science A", Score: 4}},
	}
	recs := Recommend(rt, ap, profile, nil)
	if len(recs) != 0 {
		t.Errorf("所有课程链都已完成, 不应有建议: %v", codesOf(recs))
	}
}

func TestRecommend_SophomoreSkipsCompletedTarget(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	profile := StudentProfile{Year: Sophomore, Major: "Computer Science", CompletedCourses: []string{"CS31", "CS32"}}
	recs := Recommend(rt, ap, profile, nil)

	if !equalStrings(codesOf(recs), []string{"CS33", "CS35L"}) {
		t.Fatalf("建议 = %v", codesOf(recs))
	}
	for _, r := range recs {
		if r.Priority != PriorityHigh {
			t.Errorf("%s 优先级 = %s", r.CourseCode, r.Priority)
		}
	}
	if recs[0].Reason != "organization" {
		t.Errorf("同一课程只取首条匹配规则, 实际理由 %q", recs[0].Reason)
	}
}

func TestRecommend_NeverRecommendsCompletedCourse(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	for _, year := range []Year{Freshman, Sophomore, Junior, Senior} {
		profile := StudentProfile{
			Year:             year,
			Major:            "Computer Science",
			CompletedCourses: []string{"CS31", "CS33", "MATH31A"},
			APScores:         []APScore{{ExamName: "AP Calculus AB", Score: 5}},
		}
		done := newCourseSet(profile.CompletedCourses, ap.Resolve(profile.APScores).Courses)
		seen := make(courseSet)
		for _, r := range Recommend(rt, ap, profile, nil) {
			if done.has(r.CourseCode) {
				t.Errorf("%s: 推荐了已修课程 %s", year, r.CourseCode)
			}
			if seen.has(r.CourseCode) {
				t.Errorf("%s: 重复推荐 %s", year, r.CourseCode)
			}
			seen.add(r.CourseCode)
		}
	}
}

func TestRecommend_UnknownMajorIsEmpty(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	recs := Recommend(rt, ap, StudentProfile{Year: Sophomore, Major: "Basket Weaving"}, nil)
	if recs == nil || len(recs) != 0 {
		t.Errorf("未知专业应返回空列表, 实际 %v", recs)
	}
}

func TestRecommend_AnnotatesFromAvailable(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)

	profile := StudentProfile{Year: Sophomore, Major: "Computer Science", CompletedCourses: []string{"CS31", "CS32"}}
	available := []Course{{Code: "cs33", Name: "Computer Organization", Credits: 4}}

	recs := Recommend(rt, ap, profile, available)
	if recs[0].Title != "Computer Organization" || recs[0].Credits != 4 {
		t.Errorf("CS33 应补充名称与学分: %+v", recs[0])
	}
	if recs[1].Title != "" {
		t.Errorf("CS35L 不在可选列表中, 不应补充: %+v", recs[1])
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)
	profile := StudentProfile{
		Year:     Freshman,
		Major:    "Computer Science",
		APScores: []APScore{{ExamName: "AP Calculus AB", Score: 4}, {ExamName: "AP Computer Science A", Score: 5}},
	}

	first := Recommend(rt, ap, profile, testCourses())
	for i := 0; i < 5; i++ {
		if again := Recommend(rt, ap, profile, testCourses()); !reflect.DeepEqual(first, again) {
			t.Fatalf("相同输入应得到相同输出: %v vs %v", first, again)
		}
	}
}

func TestSortByPriority_Stable(t *testing.T) {
	in := []CourseRecommendation{
		{CourseCode: "A", Priority: PriorityLow},
		{CourseCode: "B", Priority: PriorityHigh},
		{CourseCode: "C", Priority: PriorityMedium},
		{CourseCode: "D", Priority: PriorityHigh},
	}
	got := codesOf(SortByPriority(in))
	if !equalStrings(got, []string{"B", "D", "C", "A"}) {
		t.Errorf("SortByPriority = %v", got)
	}
	if in[0].CourseCode != "A" {
		t.Error("不应修改输入切片")
	}
}

func TestNewRuleTable_RejectsInvalidRules(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
	}{
		{"学年无效", Rule{Year: "fifth", Major: "CS", Action: Action{Course: "CS31", Priority: PriorityHigh, Quarter: Fall}}},
		{"缺少专业", Rule{Year: Freshman, Action: Action{Course: "CS31", Priority: PriorityHigh, Quarter: Fall}}},
		{"缺少课程", Rule{Year: Freshman, Major: "CS", Action: Action{Priority: PriorityHigh, Quarter: Fall}}},
		{"优先级无效", Rule{Year: Freshman, Major: "CS", Action: Action{Course: "CS31", Priority: "urgent", Quarter: Fall}}},
		{"学季无效", Rule{Year: Freshman, Major: "CS", Action: Action{Course: "CS31", Priority: PriorityHigh, Quarter: "Autumn"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRuleTable(RuleTableConfig{Rules: []Rule{tc.rule}}); err == nil {
				t.Error("期望返回错误")
			}
		})
	}
}

// ════════════════════════════════════════════════════════════
// 顾问开场白
// ════════════════════════════════════════════════════════════

func TestInitialAdvisorMessage(t *testing.T) {
	rt, ap := mustRuleTable(t), mustAPTable(t)
	withAP := []APScore{{ExamName: "AP Computer Science A", Score: 5}}

	cases := []struct {
		name    string
		profile StudentProfile
		want    string
	}{
		{"新生有 AP", StudentProfile{Year: Freshman, Major: "Computer Science", APScores: withAP}, "ap: skip CS31 in Computer Science"},
		{"新生无 AP", StudentProfile{Year: Freshman, Major: "Computer Science"}, "welcome: take CS31"},
		{"无 AP 模板时退回", StudentProfile{Year: Sophomore, Major: "Computer Science", APScores: withAP}, "sophomore Computer Science"},
		{"学年无模板", StudentProfile{Year: Junior, Major: "Computer Science"}, "hello"},
		{"学年未知", StudentProfile{Major: "Computer Science"}, "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InitialAdvisorMessage(rt, ap, tc.profile); got != tc.want {
				t.Errorf("InitialAdvisorMessage = %q, 期望 %q", got, tc.want)
			}
		})
	}
}
