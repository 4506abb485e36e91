package service

import (
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// PassThreshold 及格线（得分率），全局固定，不随评估配置
const PassThreshold = 0.70

// ScoreStatus 成绩状态。评估缺失或满分非法时为 StatusUnknown，不能当作不及格。
type ScoreStatus int

const (
	StatusUnknown ScoreStatus = iota
	StatusPassed
	StatusFailed
)

func (s ScoreStatus) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s ScoreStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DisplayRow 成绩列表中的一行
type DisplayRow struct {
	ResultID        string      `json:"resultId"`
	UserID          string      `json:"userId"`
	AssessmentID    string      `json:"assessmentId,omitempty"`
	AssessmentLabel string      `json:"assessment"`
	AssessmentLink  string      `json:"assessmentLink,omitempty"`
	CourseID        string      `json:"courseId,omitempty"`
	CourseLabel     string      `json:"course"`
	CourseLink      string      `json:"courseLink,omitempty"`
	Student         string      `json:"student,omitempty"`
	Score           string      `json:"score"`
	ScoreRatio      *float64    `json:"scoreRatio,omitempty"`
	Status          ScoreStatus `json:"status"`
	AttemptDate     string      `json:"attemptDate"`
}

type viewOptions struct {
	userNames     map[string]string
	defaultLocale language.Tag
	location      *time.Location
}

type ViewOption func(*viewOptions)

// WithUserNames 全部成绩视图中用于显示学生姓名
func WithUserNames(names map[string]string) ViewOption {
	return func(o *viewOptions) {
		o.userNames = names
	}
}

// WithDefaultLocale 请求方未携带语言偏好时使用
func WithDefaultLocale(tag language.Tag) ViewOption {
	return func(o *viewOptions) {
		o.defaultLocale = tag
	}
}

func WithLocation(loc *time.Location) ViewOption {
	return func(o *viewOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// BuildResultView 将成绩与评估、课程关联成展示行。纯函数：相同输入得到相同输出，
// 行顺序与输入一致。
func BuildResultView(
	results []model.Result,
	assessmentsByID map[string]model.Assessment,
	coursesByID map[string]model.Course,
	caller *CallerContext,
	userOnly bool,
	opts ...ViewOption,
) []DisplayRow {
	o := viewOptions{
		defaultLocale: language.AmericanEnglish,
		location:      time.UTC,
	}
	for _, opt := range opts {
		opt(&o)
	}

	locale, loc := o.defaultLocale, o.location
	if caller != nil {
		if caller.Locale != language.Und {
			locale = caller.Locale
		}
		if caller.Location != nil {
			loc = caller.Location
		}
	}

	scoped := FilterResultsByScope(results, caller, userOnly)
	rows := make([]DisplayRow, 0, len(scoped))
	for _, r := range scoped {
		row := DisplayRow{
			ResultID:        r.ID,
			UserID:          r.UserID,
			AssessmentLabel: util.UnknownAssessmentLabel,
			CourseLabel:     util.UnknownCourseLabel,
			Score:           formatScore(r.Score),
			Status:          StatusUnknown,
			AttemptDate:     formatAttemptDate(r.AttemptDate, locale, loc),
		}

		if a, ok := assessmentsByID[r.AssessmentID]; ok {
			row.AssessmentID = a.ID
			row.AssessmentLabel = a.Title
			row.AssessmentLink = "/assessments/" + a.ID
			row.Score = formatScore(r.Score) + " / " + strconv.Itoa(a.MaxScore)
			row.ScoreRatio, row.Status = scoreStatus(r.Score, a.MaxScore)

			if c, ok := coursesByID[a.CourseID]; ok {
				row.CourseID = c.ID
				row.CourseLabel = c.Title
				row.CourseLink = "/courses/" + c.ID
			}
		}

		if !userOnly {
			row.Student = util.UnknownUserLabel
			if name := o.userNames[r.UserID]; name != "" {
				row.Student = name
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// scoreStatus maxScore 非正数时得分率无定义
func scoreStatus(score float64, maxScore int) (*float64, ScoreStatus) {
	if maxScore <= 0 {
		return nil, StatusUnknown
	}
	ratio := score / float64(maxScore)
	if ratio >= PassThreshold {
		return &ratio, StatusPassed
	}
	return &ratio, StatusFailed
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
