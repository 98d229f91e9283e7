package model

import "gorm.io/datatypes"

// DegreeProgram 专业毕业要求表（degree_programs）
type DegreeProgram struct {
	ProgramID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Major        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"major"`
	TotalCredits int    `gorm:"type:smallint;not null;default:0"               json:"total_credits"`
	BaseModel

	// 关联（按 position 排序）
	Categories []RequirementCategory `gorm:"foreignKey:ProgramID;references:ProgramID" json:"categories,omitempty"`
}

// TableName 指定表名
func (DegreeProgram) TableName() string { return "degree_programs" }

// RequirementCategory 要求类别表（requirement_categories）
type RequirementCategory struct {
	CategoryID      string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	ProgramID       string                      `gorm:"type:uuid;not null"                             json:"program_id"`
	Position        int                         `gorm:"type:smallint;not null"                         json:"position"`
	Name            string                      `gorm:"type:varchar(100);not null"                     json:"name"`
	Description     string                      `gorm:"type:text;not null;default:''"                  json:"description"`
	MinCredits      int                         `gorm:"type:smallint;not null;default:0"               json:"min_credits"`
	RequiredCourses datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"               json:"required_courses"`
	ElectivePool    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"               json:"elective_pool"`
	MinElectives    int                         `gorm:"type:smallint;not null;default:0"               json:"min_electives"`
	BaseModel
}

// TableName 指定表名
func (RequirementCategory) TableName() string { return "requirement_categories" }
