package repository

import (
	"context"
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAll 成绩汇总需要全量评估用于建立索引
func (r *AssessmentRepository) ListAll(ctx context.Context) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.WithContext(ctx).Order("created_at asc").Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Assessment, error) {
	var as []model.Assessment
	query := r.DB.WithContext(ctx).Model(&model.Assessment{})
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Order("created_at asc").Find(&as).Error
	return as, err
}
