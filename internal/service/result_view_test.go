package service

import (
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func viewFixture() ([]model.Result, map[string]model.Assessment, map[string]model.Course) {
	results := []model.Result{
		newResult("r1", "a1", "u1", 7),
		newResult("r2", "a1", "u2", 6),
		newResult("r3", "missing", "u1", 9),
		newResult("r4", "a2", "u2", 3),
	}
	assessments := map[string]model.Assessment{
		"a1": newAssessment("a1", "c1", "Go Basics Quiz", 10),
		"a2": newAssessment("a2", "c-unloaded", "Concurrency Final", 4),
	}
	courses := map[string]model.Course{
		"c1": newCourse("c1", "Intro to Go"),
	}
	return results, assessments, courses
}

func TestBuildResultViewScoring(t *testing.T) {
	results, assessments, courses := viewFixture()
	rows := BuildResultView(results, assessments, courses, &CallerContext{UserID: "inst"}, false)
	require.Len(t, rows, 4)

	passed := rows[0]
	assert.Equal(t, "Go Basics Quiz", passed.AssessmentLabel)
	assert.Equal(t, "/assessments/a1", passed.AssessmentLink)
	assert.Equal(t, "Intro to Go", passed.CourseLabel)
	assert.Equal(t, "/courses/c1", passed.CourseLink)
	assert.Equal(t, "7 / 10", passed.Score)
	assert.Equal(t, StatusPassed, passed.Status)
	require.NotNil(t, passed.ScoreRatio)
	assert.InDelta(t, 0.7, *passed.ScoreRatio, 1e-9)

	failed := rows[1]
	assert.Equal(t, "6 / 10", failed.Score)
	assert.Equal(t, StatusFailed, failed.Status)
}

func TestBuildResultViewUnresolvedAssessment(t *testing.T) {
	results, assessments, courses := viewFixture()
	rows := BuildResultView(results, assessments, courses, nil, false)

	row := rows[2]
	assert.Equal(t, util.UnknownAssessmentLabel, row.AssessmentLabel)
	assert.Empty(t, row.AssessmentLink)
	assert.Equal(t, util.UnknownCourseLabel, row.CourseLabel)
	assert.Empty(t, row.CourseLink)
	assert.Equal(t, "9", row.Score)
	assert.Equal(t, StatusUnknown, row.Status)
	assert.NotEqual(t, StatusFailed, row.Status)
	assert.Nil(t, row.ScoreRatio)
}

func TestBuildResultViewMissingCourse(t *testing.T) {
	results, assessments, courses := viewFixture()
	rows := BuildResultView(results, assessments, courses, nil, false)

	row := rows[3]
	assert.Equal(t, "Concurrency Final", row.AssessmentLabel)
	assert.Equal(t, util.UnknownCourseLabel, row.CourseLabel)
	assert.Empty(t, row.CourseLink)
	assert.Equal(t, "3 / 4", row.Score)
	assert.Equal(t, StatusPassed, row.Status)
}

func TestBuildResultViewZeroMaxScoreIsUnknown(t *testing.T) {
	results := []model.Result{newResult("r1", "a0", "u1", 5)}
	assessments := map[string]model.Assessment{"a0": newAssessment("a0", "c1", "Broken", 0)}

	rows := BuildResultView(results, assessments, nil, nil, false)
	require.Len(t, rows, 1)
	assert.Equal(t, "5 / 0", rows[0].Score)
	assert.Equal(t, StatusUnknown, rows[0].Status)
	assert.Nil(t, rows[0].ScoreRatio)
}

func TestBuildResultViewScoreAboveMax(t *testing.T) {
	results := []model.Result{newResult("r1", "a1", "u1", 12.5)}
	assessments := map[string]model.Assessment{"a1": newAssessment("a1", "c1", "Quiz", 10)}

	rows := BuildResultView(results, assessments, nil, nil, false)
	assert.Equal(t, "12.5 / 10", rows[0].Score)
	assert.Equal(t, StatusPassed, rows[0].Status)
}

func TestBuildResultViewPreservesLengthAndOrder(t *testing.T) {
	results, assessments, courses := viewFixture()
	rows := BuildResultView(results, assessments, courses, nil, false)

	require.Len(t, rows, len(results))
	for i, r := range results {
		assert.Equal(t, r.ID, rows[i].ResultID)
	}
}

func TestBuildResultViewIsIdempotent(t *testing.T) {
	results, assessments, courses := viewFixture()
	caller := &CallerContext{UserID: "u1", Locale: language.German}
	names := map[string]string{"u1": "Ada", "u2": "Linus"}

	first := BuildResultView(results, assessments, courses, caller, false, WithUserNames(names))
	second := BuildResultView(results, assessments, courses, caller, false, WithUserNames(names))
	assert.Equal(t, first, second)
}

func TestBuildResultViewUserOnly(t *testing.T) {
	results, assessments, courses := viewFixture()

	t.Run("absent caller yields nothing", func(t *testing.T) {
		rows := BuildResultView(results, assessments, courses, nil, true)
		assert.Empty(t, rows)
	})

	t.Run("caller sees only own rows without student column", func(t *testing.T) {
		rows := BuildResultView(results, assessments, courses, &CallerContext{UserID: "u1"}, true,
			WithUserNames(map[string]string{"u1": "Ada"}))
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, "u1", row.UserID)
			assert.Empty(t, row.Student)
		}
	})
}

func TestBuildResultViewStudentLabels(t *testing.T) {
	results, assessments, courses := viewFixture()
	rows := BuildResultView(results, assessments, courses, &CallerContext{UserID: "inst"}, false,
		WithUserNames(map[string]string{"u1": "Ada"}))

	assert.Equal(t, "Ada", rows[0].Student)
	assert.Equal(t, util.UnknownUserLabel, rows[1].Student)
}

func TestBuildResultViewDateFormatting(t *testing.T) {
	results := []model.Result{
		newResult("r1", "a1", "u1", 1),
		{AssessmentID: "a1", UserID: "u1", Score: 1},
	}

	rows := BuildResultView(results, nil, nil, nil, false)
	assert.Equal(t, "Mar 5, 2024, 02:30 PM", rows[0].AttemptDate)
	assert.Equal(t, util.InvalidDateLabel, rows[1].AttemptDate)

	berlin := time.FixedZone("CET", 3600)
	rows = BuildResultView(results, nil, nil, &CallerContext{Locale: language.German, Location: berlin}, false)
	assert.Equal(t, "05.03.2024, 15:30", rows[0].AttemptDate)

	rows = BuildResultView(results, nil, nil, nil, false, WithDefaultLocale(language.BritishEnglish))
	assert.Equal(t, "5 Mar 2024, 14:30", rows[0].AttemptDate)
}

func TestScoreStatusString(t *testing.T) {
	assert.Equal(t, "Passed", StatusPassed.String())
	assert.Equal(t, "Failed", StatusFailed.String())
	assert.Equal(t, "Unknown", StatusUnknown.String())

	text, err := StatusUnknown.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Unknown", string(text))
}
