package course

import (
	"time"

	"gorm.io/datatypes"
)

// Course is the root of the catalog tree; modules and lessons are deleted with it
type Course struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:64"`
	Title       string                      `json:"title" gorm:"not null"`
	Description string                      `json:"description" gorm:"type:text"`
	Categories  datatypes.JSONSlice[string] `json:"categories,omitempty"` // empty means visible to every category
	Modules     []Module                    `json:"modules" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// LessonIDs returns every lesson id of the course, module by module
func (c *Course) LessonIDs() []string {
	var ids []string
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// VisibleTo reports whether a user of the given category may see the course
func (c *Course) VisibleTo(category string) bool {
	if category == "" || len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}
