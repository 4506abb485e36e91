package model

type UserRole string

const (
	Student    UserRole = "Student"
	Instructor UserRole = "Instructor"
)

// swagger:model User
type User struct {
	UUIDBase
	Name  string   `gorm:"size:100;not null" json:"name"`
	Email string   `gorm:"size:100;unique;not null" json:"email"`
	Role  UserRole `gorm:"type:varchar(20);default:'Student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
