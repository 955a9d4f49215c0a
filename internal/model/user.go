package model

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	FullName string   `gorm:"size:100" json:"full_name"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}
