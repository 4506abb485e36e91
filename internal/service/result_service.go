package service

import (
	"context"
	"edusync_backend/internal/config"
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"edusync_backend/pkg/logger"
	"edusync_backend/pkg/monitoring"
	"edusync_backend/pkg/tracing"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type resultOptions struct {
	courseFetchLimit int
	defaultLocale    language.Tag
}

type ResultService struct {
	Store  EntityStore
	Writer ResultWriter
	opts   atomic.Pointer[resultOptions]
}

func NewResultService(store EntityStore, writer ResultWriter, cfg config.ResultsConfig) *ResultService {
	s := &ResultService{Store: store, Writer: writer}
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig 支持配置热更新
func (s *ResultService) ApplyConfig(cfg config.ResultsConfig) {
	opts := &resultOptions{
		courseFetchLimit: cfg.CourseFetchLimit,
		defaultLocale:    language.AmericanEnglish,
	}
	if cfg.DefaultLocale != "" {
		tag, err := language.Parse(cfg.DefaultLocale)
		if err != nil {
			logger.Log.Warn("invalid default locale, falling back to en-US", zap.String("locale", cfg.DefaultLocale), zap.Error(err))
		} else {
			opts.defaultLocale = tag
		}
	}
	s.opts.Store(opts)
}

func scopeLabel(userOnly bool) string {
	if userOnly {
		return "mine"
	}
	return "all"
}

// LoadView 拉取成绩、评估、课程（以及学生姓名）并生成展示行。
// 成绩或评估列表失败时整体失败，返回包装了 util.ErrResultsUnavailable 的错误；
// 单个课程或姓名查询失败只影响对应字段的显示。
func (s *ResultService) LoadView(ctx context.Context, caller *CallerContext, userOnly bool, opts ...ViewOption) (rows []DisplayRow, err error) {
	start := time.Now()
	ctx, span := tracing.Tracer.Start(ctx, "ResultService.LoadView")
	span.SetAttributes(attribute.Bool("results.user_only", userOnly))
	defer func() {
		outcome := "ready"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		monitoring.ResultViewDuration.WithLabelValues(scopeLabel(userOnly), outcome).Observe(time.Since(start).Seconds())
		span.End()
	}()

	o := s.opts.Load()

	results, err := s.Store.ListResults(ctx)
	if err != nil {
		logger.Log.Error("failed to list results", zap.Error(err))
		return nil, fmt.Errorf("%w (list results: %w)", util.ErrResultsUnavailable, err)
	}
	scoped := FilterResultsByScope(results, caller, userOnly)

	assessments, err := s.Store.ListAssessments(ctx)
	if err != nil {
		logger.Log.Error("failed to list assessments", zap.Error(err))
		return nil, fmt.Errorf("%w (list assessments: %w)", util.ErrResultsUnavailable, err)
	}
	index := BuildAssessmentIndex(assessments)

	courses := FetchCourses(ctx, s.Store.GetCourse, index.CourseIDsFor(scoped), o.courseFetchLimit)

	viewOpts := []ViewOption{WithDefaultLocale(o.defaultLocale)}
	if !userOnly {
		viewOpts = append(viewOpts, WithUserNames(FetchUserNames(ctx, s.Store, scoped)))
	}
	viewOpts = append(viewOpts, opts...)

	rows = BuildResultView(scoped, index.ByID, courses, caller, userOnly, viewOpts...)
	span.SetAttributes(attribute.Int("results.rows", len(rows)))
	logger.Log.Debug("result view built",
		zap.String("scope", scopeLabel(userOnly)),
		zap.Int("rows", len(rows)),
		zap.Int("courses", len(courses)),
	)
	return rows, nil
}

// ListResults 原始成绩记录，教师可见全部，其他角色只能看到自己的
func (s *ResultService) ListResults(ctx context.Context, caller *CallerContext) ([]model.Result, error) {
	results, err := s.Store.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	userOnly := caller == nil || caller.Role != model.Instructor
	return FilterResultsByScope(results, caller, userOnly), nil
}

type SubmitResultRequest struct {
	AssessmentID string     `json:"assessmentId" binding:"required"`
	Score        *float64   `json:"score" binding:"required"`
	AttemptDate  *time.Time `json:"attemptDate"`
}

func (s *ResultService) SubmitResult(ctx context.Context, userID string, req SubmitResultRequest) (*model.Result, error) {
	if req.Score == nil || *req.Score < 0 {
		return nil, util.ErrInvalidScore
	}

	if _, err := s.Writer.GetAssessment(ctx, req.AssessmentID); err != nil {
		return nil, err
	}

	attempt := time.Now().UTC()
	if req.AttemptDate != nil && !req.AttemptDate.IsZero() {
		attempt = req.AttemptDate.UTC()
	}

	result := &model.Result{
		AssessmentID: req.AssessmentID,
		UserID:       userID,
		Score:        *req.Score,
		AttemptDate:  attempt,
	}
	if err := s.Writer.CreateResult(ctx, result); err != nil {
		return nil, err
	}

	logger.Log.Info("result submitted",
		zap.String("resultId", result.ID),
		zap.String("assessmentId", result.AssessmentID),
		zap.String("userId", userID),
	)
	return result, nil
}
