package service

import (
	"context"
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"sync"
	"time"
)

type fakeStore struct {
	mu sync.Mutex

	results        []model.Result
	assessments    []model.Assessment
	courses        map[string]model.Course
	names          map[string]string
	resultsErr     error
	assessmentsErr error
	courseErrs     map[string]error
	namesErr       error

	courseCalls []string
	created     []*model.Result
}

func (f *fakeStore) ListResults(ctx context.Context) ([]model.Result, error) {
	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return append([]model.Result(nil), f.results...), nil
}

func (f *fakeStore) ListAssessments(ctx context.Context) ([]model.Assessment, error) {
	if f.assessmentsErr != nil {
		return nil, f.assessmentsErr
	}
	return append([]model.Assessment(nil), f.assessments...), nil
}

func (f *fakeStore) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	f.mu.Lock()
	f.courseCalls = append(f.courseCalls, id)
	f.mu.Unlock()

	if err := f.courseErrs[id]; err != nil {
		return nil, err
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, util.ErrCourseNotFound
	}
	return &c, nil
}

func (f *fakeStore) FindUserNames(ctx context.Context, ids []string) (map[string]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	out := make(map[string]string)
	for _, id := range ids {
		if n, ok := f.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (f *fakeStore) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	for _, a := range f.assessments {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, util.ErrAssessmentNotFound
}

func (f *fakeStore) CreateResult(ctx context.Context, r *model.Result) error {
	if r.ID == "" {
		r.ID = model.GenerateUUID()
	}
	f.created = append(f.created, r)
	return nil
}

var attemptTime = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func newCourse(id, title string) model.Course {
	c := model.Course{Title: title}
	c.ID = id
	return c
}

func newAssessment(id, courseID, title string, maxScore int) model.Assessment {
	a := model.Assessment{CourseID: courseID, Title: title, MaxScore: maxScore}
	a.ID = id
	return a
}

func newResult(id, assessmentID, userID string, score float64) model.Result {
	r := model.Result{AssessmentID: assessmentID, UserID: userID, Score: score, AttemptDate: attemptTime}
	r.ID = id
	return r
}
