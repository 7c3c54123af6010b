package course

import (
	"time"

	"gorm.io/datatypes"
)

// QuizQuestion is a multiple choice question with exactly one correct option
type QuizQuestion struct {
	ID                 string   `json:"id" yaml:"id"`
	Text               string   `json:"text" yaml:"text"`
	Options            []string `json:"options" yaml:"options"`
	CorrectOptionIndex int      `json:"correct_option_index" yaml:"correct_option_index"`
}

// Quiz is immutable once created
type Quiz struct {
	ID           string                            `json:"id" gorm:"primaryKey;size:64" yaml:"id"`
	Title        string                            `json:"title,omitempty" yaml:"title"`
	PassingScore int                               `json:"passing_score" gorm:"default:60" yaml:"passing_score"` // percentage
	Questions    datatypes.JSONSlice[QuizQuestion] `json:"questions" yaml:"questions"`
	CreatedAt    time.Time                         `json:"created_at" yaml:"-"`
}

// Grade counts the answers matching the correct option of each question.
// answers[i] is the selected option index for question i; missing answers score nothing.
func (q *Quiz) Grade(answers []int) int {
	score := 0
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectOptionIndex {
			score++
		}
	}
	return score
}
