package dto

import "study-strata/internal/engine"

// StudentProfileRequest 学生档案
type StudentProfileRequest struct {
	Year             string         `json:"year"              binding:"required,oneof=freshman sophomore junior senior"`
	Major            string         `json:"major"             binding:"required,max=100"`
	CompletedCourses []string       `json:"completed_courses" binding:"omitempty,dive,max=20"`
	APScores         []APScoreInput `json:"ap_scores"         binding:"omitempty,dive"`
	CurrentGPA       *float64       `json:"current_gpa"       binding:"omitempty,min=0,max=4.3"`
}

// ToEngine 转换为引擎学生档案
func (r *StudentProfileRequest) ToEngine() engine.StudentProfile {
	return engine.StudentProfile{
		Year:             engine.Year(r.Year),
		Major:            r.Major,
		CompletedCourses: r.CompletedCourses,
		APScores:         ToEngineScores(r.APScores),
		CurrentGPA:       r.CurrentGPA,
	}
}

// ── 学业进度 ──

// GradeInput 单门课程成绩
type GradeInput struct {
	CourseCode string `json:"course_code" binding:"required,max=20"`
	Grade      string `json:"grade"       binding:"required,max=3"`
	Credits    int    `json:"credits"     binding:"min=0,max=20"`
}

// ProgressRequest 学业进度请求
type ProgressRequest struct {
	Major            string         `json:"major"             binding:"required,max=100"`
	CompletedCourses []string       `json:"completed_courses" binding:"omitempty,dive,max=20"`
	APScores         []APScoreInput `json:"ap_scores"         binding:"omitempty,dive"`
	Grades           []GradeInput   `json:"grades"            binding:"omitempty,dive"`
}

// ProgressResponse 学业进度响应；Available=false 表示专业不在目录中
type ProgressResponse struct {
	Available  bool                     `json:"available"`
	Major      string                   `json:"major"`
	Progress   *engine.DegreeProgress   `json:"progress,omitempty"`
	APCredit   engine.APGrant           `json:"ap_credit"`
	GPA        *float64                 `json:"gpa,omitempty"`
	Standing   engine.Standing          `json:"standing,omitempty"`
	Graduation *engine.GraduationStatus `json:"graduation,omitempty"`
}

// ── 选课建议 ──

// RecommendationResponse 选课建议响应
type RecommendationResponse struct {
	Recommendations []engine.CourseRecommendation `json:"recommendations"`
	APCredit        engine.APGrant                `json:"ap_credit"`
}

// GreetingResponse 顾问开场白
type GreetingResponse struct {
	Message string `json:"message"`
}
