package model

import "time"

// SourceBuiltin 内置种子数据的来源标记
const SourceBuiltin = "builtin"

// BaseModel 通用审计字段（所有目录模型嵌入）
// SeedSource 记录写入该行的种子文件，内置数据为 "builtin"
type BaseModel struct {
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"updated_at"`
	SeedSource string    `gorm:"type:varchar(255);not null;default:'builtin'" json:"seed_source"`
}

// Stamp 标记种子来源；空字符串视为内置数据
func (b *BaseModel) Stamp(source string) {
	if source == "" {
		source = SourceBuiltin
	}
	b.SeedSource = source
}
