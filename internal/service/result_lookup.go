package service

import (
	"context"
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"edusync_backend/pkg/logger"
	"edusync_backend/pkg/monitoring"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AssessmentIndex assessmentId -> Assessment 以及被引用的课程 ID（按首次出现顺序去重）
type AssessmentIndex struct {
	ByID      map[string]model.Assessment
	CourseIDs []string
}

// BuildAssessmentIndex 重复 ID 以后出现的为准
func BuildAssessmentIndex(assessments []model.Assessment) AssessmentIndex {
	idx := AssessmentIndex{
		ByID:      make(map[string]model.Assessment, len(assessments)),
		CourseIDs: make([]string, 0),
	}
	seen := make(map[string]struct{})
	for _, a := range assessments {
		idx.ByID[a.ID] = a
		if a.CourseID == "" {
			continue
		}
		if _, ok := seen[a.CourseID]; !ok {
			seen[a.CourseID] = struct{}{}
			idx.CourseIDs = append(idx.CourseIDs, a.CourseID)
		}
	}
	return idx
}

// CourseIDsFor 仅返回给定成绩实际引用到的课程 ID
func (idx AssessmentIndex) CourseIDsFor(results []model.Result) []string {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, r := range results {
		a, ok := idx.ByID[r.AssessmentID]
		if !ok || a.CourseID == "" {
			continue
		}
		if _, dup := seen[a.CourseID]; dup {
			continue
		}
		seen[a.CourseID] = struct{}{}
		ids = append(ids, a.CourseID)
	}
	return ids
}

type CourseFetcher func(ctx context.Context, id string) (*model.Course, error)

// FetchCourses 并发拉取课程。单个课程失败只记录日志，该课程在结果中缺失，
// 所有拉取完成后才返回。
func FetchCourses(ctx context.Context, fetch CourseFetcher, ids []string, limit int) map[string]model.Course {
	fetched := make([]*model.Course, len(ids))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			course, err := fetch(ctx, id)
			if err != nil {
				reason := "error"
				if errors.Is(err, util.ErrCourseNotFound) {
					reason = "not_found"
				}
				monitoring.CourseFetchFailures.WithLabelValues(reason).Inc()
				logger.Log.Warn("failed to load course", zap.String("courseId", id), zap.Error(err))
				return nil
			}
			fetched[i] = course
			return nil
		})
	}
	_ = g.Wait()

	courses := make(map[string]model.Course, len(ids))
	for i, c := range fetched {
		if c != nil {
			courses[ids[i]] = *c
		}
	}
	return courses
}

// distinctUserIDs 按出现顺序去重
func distinctUserIDs(results []model.Result) []string {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.UserID == "" {
			continue
		}
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return ids
}

// FetchUserNames 查询失败时返回空表，行上显示 Unknown User
func FetchUserNames(ctx context.Context, store EntityStore, results []model.Result) map[string]string {
	ids := distinctUserIDs(results)
	if len(ids) == 0 {
		return map[string]string{}
	}
	names, err := store.FindUserNames(ctx, ids)
	if err != nil {
		logger.Log.Warn("failed to load user names", zap.Int("count", len(ids)), zap.Error(err))
		return map[string]string{}
	}
	return names
}
