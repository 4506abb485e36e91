package util

// 成绩汇总视图中的兜底文案
const (
	UnknownAssessmentLabel = "Unknown Assessment"
	UnknownCourseLabel     = "Unknown Course"
	UnknownUserLabel       = "Unknown User"
	InvalidDateLabel       = "Invalid Date"
)
