package course

import "time"

const (
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// Progress tracks one user's attempts on one lesson
type Progress struct {
	ID          string     `json:"id" gorm:"primaryKey;size:64"`
	UserID      string     `json:"user_id" gorm:"size:191;not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID    string     `json:"lesson_id" gorm:"size:64;not null;uniqueIndex:idx_progress_user_lesson"`
	Status      string     `json:"status" gorm:"size:20;default:'IN_PROGRESS'"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	Score       int        `json:"score" gorm:"default:0"` // last submitted score, not the best one
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Progress) IsCompleted() bool {
	return p.Status == ProgressCompleted
}
