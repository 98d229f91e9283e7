package repository

import (
	"context"

	"gorm.io/gorm"

	"study-strata/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	List(ctx context.Context) ([]model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	CreateBatch(ctx context.Context, courses []model.Course) error
	DeleteAll(ctx context.Context) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Order("code ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) CreateBatch(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(courses, 100).Error
}

func (r *courseRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Course{}).Error
}
