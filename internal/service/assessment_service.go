package service

import (
	"context"
	"edusync_backend/internal/model"
	"edusync_backend/internal/repository"
	"edusync_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidQuestions = errors.New("questions must be valid JSON")

type AssessmentService struct {
	Repo    *repository.AssessmentRepository
	Courses *repository.CourseRepository
}

func NewAssessmentService(repo *repository.AssessmentRepository, courses *repository.CourseRepository) *AssessmentService {
	return &AssessmentService{Repo: repo, Courses: courses}
}

type AssessmentRequest struct {
	CourseID  string          `json:"courseId" binding:"required"`
	Title     string          `json:"title" binding:"required"`
	Questions json.RawMessage `json:"questions"`
	MaxScore  int             `json:"maxScore" binding:"required,gt=0"`
}

func (s *AssessmentService) CreateAssessment(ctx context.Context, req AssessmentRequest) (*model.Assessment, error) {
	if _, err := s.Courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	questions := "[]"
	if len(req.Questions) > 0 {
		if !json.Valid(req.Questions) {
			return nil, ErrInvalidQuestions
		}
		questions = string(req.Questions)
	}

	a := &model.Assessment{
		CourseID:  req.CourseID,
		Title:     req.Title,
		Questions: questions,
		MaxScore:  req.MaxScore,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return a, nil
}

func (s *AssessmentService) ListAssessments(ctx context.Context, courseID string) ([]model.Assessment, error) {
	return s.Repo.ListByCourse(ctx, courseID)
}

func (s *AssessmentService) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, util.ErrAssessmentNotFound) {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return a, err
}
