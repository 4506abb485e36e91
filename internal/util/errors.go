package util

import "errors"

// ResultsUnavailableMessage 结果列表加载失败时展示给用户的文案
const ResultsUnavailableMessage = "Failed to load results. Please try again later."

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidScore       = errors.New("score must be a non-negative number")
	ErrResultsUnavailable = errors.New(ResultsUnavailableMessage)
	ErrViewSuperseded     = errors.New("result view load superseded by a newer request")
)
