package model

// swagger:model Assessment
type Assessment struct {
	UUIDBase
	CourseID string `gorm:"index;type:varchar(36)" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	// Questions 题目集序列化内容，成绩汇总不解析
	Questions string `gorm:"type:longtext" json:"questions"`
	MaxScore  int    `gorm:"not null" json:"maxScore"`
}

func (Assessment) TableName() string {
	return "assessments"
}
