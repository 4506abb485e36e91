package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	InstructorID string `gorm:"index;type:varchar(36)" json:"instructorId"`
	MediaURL     string `gorm:"size:512" json:"mediaUrl"`
}

func (Course) TableName() string {
	return "courses"
}
