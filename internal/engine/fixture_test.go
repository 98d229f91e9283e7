package engine

import "testing"

// ── 测试夹具 ──

func testCourses() []Course {
	return []Course{
		{Code: "CS31", Name: "Intro to CS I", Credits: 4, Type: CourseCore,
			Days: []Day{Monday, Wednesday, Friday}, StartTime: 540, EndTime: 650, Offered: []Quarter{Fall, Winter, Spring}},
		{Code: "CS32", Name: "Intro to CS II", Credits: 4, Type: CourseCore,
			Days: []Day{Tuesday, Thursday}, StartTime: 600, EndTime: 710, Prerequisites: []string{"CS31"}},
		{Code: "CS33", Name: "Computer Organization", Credits: 4, Type: CourseCore, Prerequisites: []string{"CS32"}},
		{Code: "CS35L", Name: "Software Construction", Credits: 4, Type: CourseCore, Prerequisites: []string{"CS31"}},
		{Code: "CS130", Name: "Software Engineering", Credits: 4, Type: CourseElective},
		{Code: "CS143", Name: "Database Systems", Credits: 4, Type: CourseElective, Offered: []Quarter{Winter}},
		{Code: "CS161", Name: "Artificial Intelligence", Credits: 4, Type: CourseElective},
		{Code: "MATH31A", Name: "Calculus", Credits: 4, Type: CourseMath},
		{Code: "MATH31B", Name: "Integration", Credits: 4, Type: CourseMath, Prerequisites: []string{"MATH31A"}},
		{Code: "PHYSICS1A", Name: "Mechanics", Credits: 5, Type: CourseScience},
	}
}

func testPrograms() []DegreeRequirements {
	return []DegreeRequirements{{
		Major: "Computer Science",
		Categories: []RequirementCategory{
			{Name: "Lower Division Core", MinCredits: 12, RequiredCourses: []string{"CS31", "CS32", "CS33"}},
			{Name: "Upper Division Electives", MinCredits: 8, ElectivePool: []string{"CS130", "CS143", "CS161"}, MinElectives: 2},
			{Name: "Mathematics", MinCredits: 8, RequiredCourses: []string{"MATH31A", "MATH31B"}},
		},
	}}
}

func testAPConversions() []APConversion {
	return []APConversion{
		{ExamName: "AP Computer Science A", MinScore: 3, EquivalentCourses: []string{"CS31"}, Credits: 8},
		{ExamName: "AP Calculus AB", MinScore: 3, EquivalentCourses: []string{"MATH31A"}, Credits: 4},
		{ExamName: "AP Calculus BC", MinScore: 3, EquivalentCourses: []string{"MATH31A", "MATH31B"}, Credits: 8},
	}
}

func testRuleConfig() RuleTableConfig {
	cs := "Computer Science"
	return RuleTableConfig{
		Rules: []Rule{
			{Year: Freshman, Major: cs, When: Condition{NoneOf: []string{"CS31"}},
				Action: Action{Course: "CS31", Reason: "start programming", Priority: PriorityHigh, Quarter: Fall}},
			{Year: Freshman, Major: cs, When: Condition{NoneOf: []string{"MATH31A"}},
				Action: Action{Course: "MATH31A", Reason: "start calculus", Priority: PriorityHigh, Quarter: Fall}},
			{Year: Freshman, Major: cs, When: Condition{AllOf: []string{"CS31"}},
				Action: Action{Course: "CS32", Reason: "continue programming", Priority: PriorityHigh, Quarter: Winter}},

			{Year: Sophomore, Major: cs, When: Condition{AllOf: []string{"CS31"}},
				Action: Action{Course: "CS32", Reason: "finish intro", Priority: PriorityHigh, Quarter: Fall}},
			{Year: Sophomore, Major: cs, When: Condition{AllOf: []string{"MATH31A"}},
				Action: Action{Course: "MATH31B", Reason: "more calculus", Priority: PriorityLow, Quarter: Fall}},
			{Year: Sophomore, Major: cs, When: Condition{AllOf: []string{"CS32"}},
				Action: Action{Course: "CS33", Reason: "organization", Priority: PriorityHigh, Quarter: Fall}},
			{Year: Sophomore, Major: cs, When: Condition{AllOf: []string{"CS31"}},
				Action: Action{Course: "CS35L", Reason: "tools", Priority: PriorityHigh, Quarter: Winter}},
			{Year: Sophomore, Major: cs, When: Condition{AllOf: []string{"CS32"}},
				Action: Action{Course: "CS33", Reason: "duplicate target", Priority: PriorityMedium, Quarter: Spring}},
		},
		FreshmanTracks: map[string][]FreshmanTrack{
			cs: {
				{Name: "Computer Science", Sequence: []string{"CS31", "CS32", "CS33"}, Priority: PriorityHigh, Quarter: Fall},
				{Name: "Calculus", Sequence: []string{"MATH31A", "MATH31B"}, Priority: PriorityHigh, Quarter: Fall},
			},
		},
		AdvisorMessages: []AdvisorTemplate{
			{Year: Freshman, WithAP: "ap: skip {first_course} in {major}", WithoutAP: "welcome: take {first_course}"},
			{Year: Sophomore, WithoutAP: "sophomore {major}"},
		},
		FallbackMessage: "hello",
	}
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(testCourses(), testPrograms())
	if err != nil {
		t.Fatalf("NewCatalog 失败: %v", err)
	}
	return c
}

func mustAPTable(t *testing.T) *APTable {
	t.Helper()
	ap, err := NewAPTable(testAPConversions())
	if err != nil {
		t.Fatalf("NewAPTable 失败: %v", err)
	}
	return ap
}

func mustRuleTable(t *testing.T) *RuleTable {
	t.Helper()
	rt, err := NewRuleTable(testRuleConfig())
	if err != nil {
		t.Fatalf("NewRuleTable 失败: %v", err)
	}
	return rt
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
