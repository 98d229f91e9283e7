package repository

import (
	"context"

	"gorm.io/gorm"

	"study-strata/internal/model"
)

// APConversionRepository AP 换算数据访问接口
type APConversionRepository interface {
	List(ctx context.Context) ([]model.APConversion, error)
	CreateBatch(ctx context.Context, convs []model.APConversion) error
	DeleteAll(ctx context.Context) error
}

type apConversionRepo struct {
	db *gorm.DB
}

// NewAPConversionRepo 创建 APConversionRepository 实例
func NewAPConversionRepo(db *gorm.DB) APConversionRepository {
	return &apConversionRepo{db: db}
}

func (r *apConversionRepo) List(ctx context.Context) ([]model.APConversion, error) {
	var convs []model.APConversion
	err := r.db.WithContext(ctx).Order("exam_name ASC").Find(&convs).Error
	return convs, err
}

func (r *apConversionRepo) CreateBatch(ctx context.Context, convs []model.APConversion) error {
	if len(convs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(convs, 100).Error
}

func (r *apConversionRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.APConversion{}).Error
}
