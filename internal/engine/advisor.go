package engine

import "strings"

// InitialAdvisorMessage 选择顾问开场白
//
// 纯查表：按 (学年, AP 是否授予本专业首门课程) 选择模板，
// 相同输入总是得到相同输出。模板中 {major}、{first_course} 会被替换。
func InitialAdvisorMessage(rules *RuleTable, ap *APTable, profile StudentProfile) string {
	tpl, ok := rules.templates[profile.Year]
	if !ok {
		return rules.fallback
	}

	first, hasFirst := rules.FirstCourse(profile.Major)
	msg := tpl.WithoutAP
	if hasFirst && ap.Resolve(profile.APScores).Grants(first) && tpl.WithAP != "" {
		msg = tpl.WithAP
	}
	if msg == "" {
		return rules.fallback
	}

	return strings.NewReplacer(
		"{major}", profile.Major,
		"{first_course}", first,
	).Replace(msg)
}
