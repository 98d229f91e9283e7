package repository

import (
	"context"

	"gorm.io/gorm"

	"study-strata/internal/model"
)

// ProgramRepository 专业毕业要求数据访问接口
type ProgramRepository interface {
	List(ctx context.Context) ([]model.DegreeProgram, error)
	GetByMajor(ctx context.Context, major string) (*model.DegreeProgram, error)
	Create(ctx context.Context, program *model.DegreeProgram) error
	DeleteAll(ctx context.Context) error
}

type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *programRepo) List(ctx context.Context) ([]model.DegreeProgram, error) {
	var programs []model.DegreeProgram
	err := r.db.WithContext(ctx).
		Preload("Categories", preloadCategories).
		Order("major ASC").
		Find(&programs).Error
	return programs, err
}

func (r *programRepo) GetByMajor(ctx context.Context, major string) (*model.DegreeProgram, error) {
	var program model.DegreeProgram
	err := r.db.WithContext(ctx).
		Preload("Categories", preloadCategories).
		Where("major = ?", major).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// Create 写入专业及其全部要求类别（gorm 关联自动创建）
func (r *programRepo) Create(ctx context.Context, program *model.DegreeProgram) error {
	return r.db.WithContext(ctx).Create(program).Error
}

// DeleteAll 删除全部专业；要求类别随外键级联删除
func (r *programRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.DegreeProgram{}).Error
}
