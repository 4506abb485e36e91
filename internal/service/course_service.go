package service

import (
	"context"
	"edusync_backend/internal/model"
	"edusync_backend/internal/repository"
	"fmt"
)

type CourseService struct {
	Repo *repository.CourseRepository
}

func NewCourseService(repo *repository.CourseRepository) *CourseService {
	return &CourseService{Repo: repo}
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaUrl" binding:"omitempty,url"`
}

func (s *CourseService) CreateCourse(ctx context.Context, instructorID string, req CourseRequest) (*model.Course, error) {
	c := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
		MediaURL:     req.MediaURL,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *CourseService) ListCourses(ctx context.Context, page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(ctx, page, limit)
}
