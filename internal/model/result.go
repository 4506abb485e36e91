package model

import "time"

// swagger:model Result
type Result struct {
	UUIDBase
	AssessmentID string    `gorm:"index;type:varchar(36)" json:"assessmentId"`
	UserID       string    `gorm:"index;type:varchar(36)" json:"userId"`
	Score        float64   `gorm:"not null" json:"score"`
	AttemptDate  time.Time `json:"attemptDate"`
}

func (Result) TableName() string {
	return "results"
}
