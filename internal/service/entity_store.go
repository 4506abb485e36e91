package service

import (
	"context"
	"edusync_backend/internal/model"
	"edusync_backend/internal/repository"
	"edusync_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// EntityStore 成绩汇总所需的只读数据来源
type EntityStore interface {
	ListResults(ctx context.Context) ([]model.Result, error)
	ListAssessments(ctx context.Context) ([]model.Assessment, error)
	// GetCourse 课程不存在时返回 util.ErrCourseNotFound
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	FindUserNames(ctx context.Context, ids []string) (map[string]string, error)
}

// ResultWriter 提交成绩所需的写入能力
type ResultWriter interface {
	GetAssessment(ctx context.Context, id string) (*model.Assessment, error)
	CreateResult(ctx context.Context, result *model.Result) error
}

// CallerContext 请求方身份，nil 表示会话尚未解析
type CallerContext struct {
	UserID      string
	DisplayName string
	Role        model.UserRole
	Locale      language.Tag
	// Location 展示时间所用时区，nil 时使用 UTC
	Location *time.Location
}

// GormEntityStore 基于 gorm 仓储实现 EntityStore，课程查询走 Redis 读缓存
type GormEntityStore struct {
	Results     *repository.ResultRepository
	Assessments *repository.AssessmentRepository
	Courses     *repository.CourseRepository
	Users       *repository.UserRepository
	Cache       *repository.CourseCache
}

func NewGormEntityStore(
	results *repository.ResultRepository,
	assessments *repository.AssessmentRepository,
	courses *repository.CourseRepository,
	users *repository.UserRepository,
	cache *repository.CourseCache,
) *GormEntityStore {
	return &GormEntityStore{
		Results:     results,
		Assessments: assessments,
		Courses:     courses,
		Users:       users,
		Cache:       cache,
	}
}

func (s *GormEntityStore) ListResults(ctx context.Context) ([]model.Result, error) {
	return s.Results.ListAll(ctx)
}

func (s *GormEntityStore) ListAssessments(ctx context.Context) ([]model.Assessment, error) {
	return s.Assessments.ListAll(ctx)
}

func (s *GormEntityStore) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	cached, err := s.Cache.Get(ctx, id)
	if err != nil {
		// 缓存不可用时直接回源
		logger.Log.Warn("course cache read failed", zap.String("courseId", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Cache.Set(ctx, course); err != nil {
		logger.Log.Warn("course cache write failed", zap.String("courseId", id), zap.Error(err))
	}
	return course, nil
}

func (s *GormEntityStore) FindUserNames(ctx context.Context, ids []string) (map[string]string, error) {
	return s.Users.FindNamesByIDs(ctx, ids)
}

func (s *GormEntityStore) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	return s.Assessments.FindByID(ctx, id)
}

func (s *GormEntityStore) CreateResult(ctx context.Context, result *model.Result) error {
	return s.Results.Create(ctx, result)
}
