package course

import "time"

// Lesson is a single video (and optional text) inside a module.
// QuizID is a weak reference into the quiz bank.
type Lesson struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	ModuleID  string    `json:"module_id" gorm:"size:64;index;not null"`
	Title     string    `json:"title"`
	VideoURL  string    `json:"video_url"`
	Content   string    `json:"content,omitempty" gorm:"type:text"`
	Order     int       `json:"order" gorm:"column:order_index;default:0"` // 1-based position in module
	QuizID    string    `json:"quiz_id,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
