package model

import "gorm.io/datatypes"

// Course 课程表（courses）
// StartTime/EndTime 为一天中的分钟数；Days 为空时表示无固定上课时间
type Course struct {
	Code          string                      `gorm:"type:varchar(20);primaryKey"           json:"code"`
	Name          string                      `gorm:"type:varchar(200);not null"            json:"name"`
	Credits       int                         `gorm:"type:smallint;not null"                json:"credits"`
	Type          string                      `gorm:"type:varchar(30);not null"             json:"type"`
	Difficulty    string                      `gorm:"type:varchar(10);not null"             json:"difficulty"`
	Days          datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"      json:"days"`
	StartTime     int                         `gorm:"type:smallint;not null;default:0"      json:"start_time"`
	EndTime       int                         `gorm:"type:smallint;not null;default:0"      json:"end_time"`
	Prerequisites datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"      json:"prerequisites"`
	Offered       datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"      json:"offered"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
