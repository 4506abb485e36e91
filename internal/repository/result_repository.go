package repository

import (
	"context"
	"edusync_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

// ListAll 按提交时间倒序返回全部成绩
func (r *ResultRepository) ListAll(ctx context.Context) ([]model.Result, error) {
	var rs []model.Result
	err := r.DB.WithContext(ctx).Order("attempt_date desc, id asc").Find(&rs).Error
	return rs, err
}

func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]model.Result, error) {
	var rs []model.Result
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("attempt_date desc, id asc").Find(&rs).Error
	return rs, err
}
