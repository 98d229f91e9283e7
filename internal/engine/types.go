package engine

// ── 枚举 ──

// Year 学年
type Year string

const (
	Freshman  Year = "freshman"
	Sophomore Year = "sophomore"
	Junior    Year = "junior"
	Senior    Year = "senior"
)

// Valid 是否为已知学年
func (y Year) Valid() bool {
	switch y {
	case Freshman, Sophomore, Junior, Senior:
		return true
	}
	return false
}

// CourseType 课程类型
type CourseType string

const (
	CourseCore     CourseType = "core"
	CourseElective CourseType = "elective"
	CourseGE       CourseType = "general-education"
	CourseMath     CourseType = "math"
	CourseScience  CourseType = "science"
)

// Difficulty 课程难度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Priority 推荐优先级
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank 越小越优先，未知优先级排在最后
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// ── 参考数据 ──

// Course 课程目录条目
// Days/StartTime/EndTime 可选；StartTime、EndTime 为一天中的分钟数，区间为 [start, end)
type Course struct {
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Credits       int        `json:"credits"`
	Type          CourseType `json:"type"`
	Difficulty    Difficulty `json:"difficulty"`
	Days          []Day      `json:"days,omitempty"`
	StartTime     int        `json:"start_time,omitempty"`
	EndTime       int        `json:"end_time,omitempty"`
	Prerequisites []string   `json:"prerequisites,omitempty"`
	Offered       []Quarter  `json:"offered,omitempty"`
}

// HasSchedule 是否带有每周上课时间
func (c Course) HasSchedule() bool {
	return len(c.Days) > 0 && c.EndTime > c.StartTime
}

// RequirementCategory 专业要求中的一个类别
type RequirementCategory struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	MinCredits      int      `json:"min_credits"`
	RequiredCourses []string `json:"required_courses"`
	ElectivePool    []string `json:"elective_pool"`
	MinElectives    int      `json:"min_electives"`
}

// DegreeRequirements 某专业的全部毕业要求，Categories 保持目录声明顺序
type DegreeRequirements struct {
	Major        string                `json:"major"`
	TotalCredits int                   `json:"total_credits"`
	Categories   []RequirementCategory `json:"categories"`
}

// APScore 学生提交的一条 AP 成绩
type APScore struct {
	ExamName string `json:"exam_name"`
	Score    int    `json:"score"`
}

// APConversion AP 考试到等价课程的换算规则
type APConversion struct {
	ExamName          string   `json:"exam_name"`
	MinScore          int      `json:"min_score"`
	EquivalentCourses []string `json:"ucla_equivalent_courses"`
	Credits           int      `json:"credits"`
}

// StudentProfile 单次评估的学生档案，由调用方持有
type StudentProfile struct {
	Year             Year      `json:"year"`
	Major            string    `json:"major"`
	CompletedCourses []string  `json:"completed_courses"`
	APScores         []APScore `json:"ap_scores,omitempty"`
	CurrentGPA       *float64  `json:"current_gpa,omitempty"`
}

// ── 派生结果 ──

// CategoryProgress 单个要求类别的完成情况
type CategoryProgress struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	CompletedCredits   int      `json:"completed_credits"`
	MinCredits         int      `json:"min_credits"`
	Progress           float64  `json:"progress"`
	IsComplete         bool     `json:"is_complete"`
	CompletedRequired  []string `json:"completed_required"`
	RemainingRequired  []string `json:"remaining_required"`
	CompletedElectives []string `json:"completed_electives"`
	RemainingElectives []string `json:"remaining_electives"`
	MinElectives       int      `json:"min_electives"`
}

// DegreeProgress 学位进度报告（每次调用新建，不持久化）
type DegreeProgress struct {
	Major           string             `json:"major"`
	TotalCredits    int                `json:"total_credits"`
	RequiredCredits int                `json:"required_credits"`
	OverallProgress float64            `json:"overall_progress"`
	Categories      []CategoryProgress `json:"categories"`
}

// CourseRecommendation 一条选课建议
// Title/Credits 仅在可选课程列表中找到对应课程时填充
type CourseRecommendation struct {
	CourseCode string   `json:"course_code"`
	Reason     string   `json:"reason"`
	Priority   Priority `json:"priority"`
	Quarter    Quarter  `json:"quarter"`
	Title      string   `json:"title,omitempty"`
	Credits    int      `json:"credits,omitempty"`
}
