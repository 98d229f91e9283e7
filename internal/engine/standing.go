package engine

import (
	"math"
	"strings"
)

// ── 学业状态与毕业资格 ──

// Standing 学业状态
type Standing string

const (
	StandingGood         Standing = "Good"
	StandingWarning      Standing = "Warning"
	StandingProbation    Standing = "Academic Probation"
	StandingDisqualified Standing = "Academic Disqualification"
)

// GradeRecord 一门已评分课程
type GradeRecord struct {
	CourseCode string `json:"course_code"`
	Grade      string `json:"grade"`
	Credits    int    `json:"credits"`
}

var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// GradePoints 字母成绩对应绩点；P/NP/W 等不计入 GPA 的成绩返回 ok=false
func GradePoints(grade string) (float64, bool) {
	p, ok := gradePoints[strings.ToUpper(strings.TrimSpace(grade))]
	return p, ok
}

// CalculateGPA 按学分加权计算 GPA，保留两位小数
// 无可计入成绩时返回 0
func CalculateGPA(grades []GradeRecord) float64 {
	var points float64
	credits := 0
	for _, g := range grades {
		p, ok := GradePoints(g.Grade)
		if !ok || g.Credits <= 0 {
			continue
		}
		points += p * float64(g.Credits)
		credits += g.Credits
	}
	if credits == 0 {
		return 0
	}
	return math.Round(points/float64(credits)*100) / 100
}

// StandingFor 由 GPA 判定学业状态
func StandingFor(gpa float64) Standing {
	switch {
	case gpa < 1.5:
		return StandingDisqualified
	case gpa < 2.0:
		return StandingProbation
	case gpa < 2.5:
		return StandingWarning
	default:
		return StandingGood
	}
}

// GraduationStatus 毕业资格检查结果
type GraduationStatus struct {
	Eligible           bool     `json:"eligible"`
	Standing           Standing `json:"standing"`
	UnmetCategories    []string `json:"unmet_categories"`
	RemainingCredits   int      `json:"remaining_credits"`
	StandingBlocksGrad bool     `json:"standing_blocks_graduation"`
	MissingGPA         bool     `json:"missing_gpa"`
}

// GraduationCheck 全部类别完成、总进度 100 且未被劝退时才具备毕业资格
// standing 为空表示没有成绩记录，此时不具备毕业资格
func GraduationCheck(progress DegreeProgress, standing Standing) GraduationStatus {
	st := GraduationStatus{
		Standing:        standing,
		UnmetCategories: []string{},
	}
	for _, c := range progress.Categories {
		if !c.IsComplete {
			st.UnmetCategories = append(st.UnmetCategories, c.Name)
		}
	}
	if rem := progress.RequiredCredits - progress.TotalCredits; rem > 0 {
		st.RemainingCredits = rem
	}
	st.StandingBlocksGrad = standing == StandingDisqualified
	st.MissingGPA = standing == ""
	st.Eligible = len(st.UnmetCategories) == 0 &&
		progress.OverallProgress >= 100 &&
		!st.StandingBlocksGrad &&
		!st.MissingGPA
	return st
}
