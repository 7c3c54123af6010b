package course

import "time"

// Certificate represents an issued certificate for course completion.
// UserName and CourseTitle are copied at issuance and never refreshed.
type Certificate struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	UserID      string    `json:"user_id" gorm:"size:191;not null;uniqueIndex:idx_certificate_user_course"`
	CourseID    string    `json:"course_id" gorm:"size:64;not null;uniqueIndex:idx_certificate_user_course"`
	UserName    string    `json:"user_name"`
	CourseTitle string    `json:"course_title"`
	IssuedAt    time.Time `json:"issued_at"`
}
