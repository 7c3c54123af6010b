package course

import "time"

// Module represents a section/module within a course
type Module struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	CourseID    string    `json:"course_id" gorm:"size:64;index;not null"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Order       int       `json:"order" gorm:"column:order_index;default:0"` // 1-based position in course
	Lessons     []Lesson  `json:"lessons" gorm:"foreignKey:ModuleID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
