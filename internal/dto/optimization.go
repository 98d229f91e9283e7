package dto

import "study-strata/pkg/optimizer"

// ── 排课优化 ──

// TimeSlotInput 偏好或回避的时间段
type TimeSlotInput struct {
	Day       string `json:"day"        binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"   binding:"required"`
}

// OptimizeConstraints 排课约束；学分上下限为 0 时取服务端配置
type OptimizeConstraints struct {
	MaxCreditsPerQuarter int             `json:"max_credits_per_quarter" binding:"omitempty,min=1,max=40"`
	MinCreditsPerQuarter int             `json:"min_credits_per_quarter" binding:"omitempty,min=0,max=40"`
	PreferredTimeSlots   []TimeSlotInput `json:"preferred_time_slots"    binding:"omitempty,dive"`
	AvoidTimeSlots       []TimeSlotInput `json:"avoid_time_slots"        binding:"omitempty,dive"`
	MaxWorkloadPerWeek   int             `json:"max_workload_per_week"   binding:"omitempty,min=0,max=120"`
	GPAGoal              float64         `json:"gpa_goal"                binding:"omitempty,min=0,max=4.3"`
}

// OptimizeGoals 优化目标
type OptimizeGoals struct {
	PrioritizeGPA         bool `json:"prioritize_gpa"`
	PrioritizeWorkload    bool `json:"prioritize_workload"`
	PrioritizeGraduation  bool `json:"prioritize_graduation"`
	PrioritizePreferences bool `json:"prioritize_preferences"`
}

// OptimizeRequest 排课优化请求
// CourseCodes 为空时使用整个课程目录
type OptimizeRequest struct {
	Profile        StudentProfileRequest `json:"profile"         binding:"required"`
	CourseCodes    []string              `json:"course_codes"    binding:"omitempty,dive,max=20"`
	Constraints    OptimizeConstraints   `json:"constraints"`
	Goals          OptimizeGoals         `json:"goals"`
	CurrentQuarter string                `json:"current_quarter" binding:"required"`
	CurrentYear    int                   `json:"current_year"    binding:"required,min=2000,max=2100"`
	TargetQuarter  string                `json:"target_quarter"  binding:"required"`
	TargetYear     int                   `json:"target_year"     binding:"required,min=2000,max=2100"`
}

// OptimizeResponse 排课优化结果
type OptimizeResponse struct {
	TargetQuarters int              `json:"target_quarters"`
	Result         optimizer.Result `json:"result"`
}
