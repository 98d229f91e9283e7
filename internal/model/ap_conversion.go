package model

import "gorm.io/datatypes"

// APConversion AP 换算表（ap_conversions）
type APConversion struct {
	ExamName          string                      `gorm:"type:varchar(100);primaryKey"     json:"exam_name"`
	MinScore          int                         `gorm:"type:smallint;not null"           json:"min_score"`
	EquivalentCourses datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"equivalent_courses"`
	Credits           int                         `gorm:"type:smallint;not null;default:0" json:"credits"`
	BaseModel
}

// TableName 指定表名
func (APConversion) TableName() string { return "ap_conversions" }
