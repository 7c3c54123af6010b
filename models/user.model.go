package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User is the local record of a learner; for externally authenticated users it is a
// shadow of the identity provider profile keyed by username.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Name      string    `json:"name" gorm:"default:''"`
	Email     string    `json:"email,omitempty" gorm:"default:''"`
	Avatar    string    `json:"avatar,omitempty" gorm:"default:''"`
	Role      string    `json:"role" gorm:"size:20;default:'student'"`
	Title     string    `json:"title,omitempty"`
	XP        int       `json:"xp" gorm:"default:0"`
	Category  string    `json:"category,omitempty"`
	LastLogin time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
