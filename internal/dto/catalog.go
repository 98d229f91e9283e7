package dto

import "study-strata/internal/engine"

// ── 课程目录 ──

// CourseListQuery 课程列表查询
type CourseListQuery struct {
	PaginationRequest
	Type    string `form:"type"    binding:"omitempty,oneof=core elective general-education math science"`
	Quarter string `form:"quarter" binding:"omitempty"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// CourseResponse 课程信息（时间以 HH:MM 表示）
type CourseResponse struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Credits       int      `json:"credits"`
	Type          string   `json:"type"`
	Difficulty    string   `json:"difficulty"`
	Days          []string `json:"days"`
	StartTime     string   `json:"start_time,omitempty"`
	EndTime       string   `json:"end_time,omitempty"`
	Prerequisites []string `json:"prerequisites"`
	Offered       []string `json:"offered"`
}

// MajorResponse 专业概要
type MajorResponse struct {
	Major         string `json:"major"`
	TotalCredits  int    `json:"total_credits"`
	CategoryCount int    `json:"category_count"`
}

// ── AP 换算 ──

// APScoreInput 单门 AP 成绩
type APScoreInput struct {
	ExamName string `json:"exam_name" binding:"required,max=100"`
	Score    int    `json:"score"     binding:"min=1,max=5"`
}

// APResolveRequest AP 换算请求
type APResolveRequest struct {
	Scores []APScoreInput `json:"scores" binding:"dive"`
}

// ToEngineScores 转换为引擎 AP 成绩
func ToEngineScores(in []APScoreInput) []engine.APScore {
	out := make([]engine.APScore, 0, len(in))
	for _, s := range in {
		out = append(out, engine.APScore{ExamName: s.ExamName, Score: s.Score})
	}
	return out
}
