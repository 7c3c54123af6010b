package repository

import (
	"context"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

type gormCourses struct{ db *gorm.DB }

func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_index asc, created_at asc")
}

// tree preloads modules and lessons sorted by their position
func (r gormCourses) tree(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Modules", byOrder).
		Preload("Modules.Lessons", byOrder)
}

func (r gormCourses) List(ctx context.Context) ([]courseModels.Course, error) {
	var courses []courseModels.Course
	err := r.tree(ctx).Order("created_at asc, id asc").Find(&courses).Error
	return courses, translate(err)
}

func (r gormCourses) FindByID(ctx context.Context, id string) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := r.tree(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r gormCourses) FindByLesson(ctx context.Context, lessonID string) (*courseModels.Course, error) {
	lesson, err := r.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	var module courseModels.Module
	if err := r.db.WithContext(ctx).Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, module.CourseID)
}

// Create inserts the course along with any modules and lessons it carries
func (r gormCourses) Create(ctx context.Context, course *courseModels.Course) error {
	return translate(r.db.WithContext(ctx).Create(course).Error)
}

func (r gormCourses) Update(ctx context.Context, course *courseModels.Course) error {
	var existing courseModels.Course
	db := r.db.WithContext(ctx)
	if err := db.Where("id = ?", course.ID).First(&existing).Error; err != nil {
		return translate(err)
	}
	err := db.Model(&existing).
		Select("Title", "Description", "Categories").
		Updates(course).Error
	return translate(err)
}

func (r gormCourses) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course courseModels.Course
		if err := tx.Where("id = ?", id).First(&course).Error; err != nil {
			return translate(err)
		}
		moduleIDs := tx.Model(&courseModels.Module{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("module_id IN (?)", moduleIDs).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&courseModels.Module{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
}

func (r gormCourses) FindModule(ctx context.Context, courseID, moduleID string) (*courseModels.Module, error) {
	var module courseModels.Module
	err := r.db.WithContext(ctx).
		Preload("Lessons", byOrder).
		Where("id = ? AND course_id = ?", moduleID, courseID).
		First(&module).Error
	if err != nil {
		return nil, translate(err)
	}
	return &module, nil
}

// CreateModule appends the module to the end of its course when Order is unset
func (r gormCourses) CreateModule(ctx context.Context, module *courseModels.Module) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course courseModels.Course
		if err := tx.Where("id = ?", module.CourseID).First(&course).Error; err != nil {
			return translate(err)
		}
		if module.Order <= 0 {
			var max int
			if err := tx.Model(&courseModels.Module{}).
				Where("course_id = ?", module.CourseID).
				Select("COALESCE(MAX(order_index), 0)").
				Scan(&max).Error; err != nil {
				return err
			}
			module.Order = max + 1
		}
		return translate(tx.Create(module).Error)
	})
}

func (r gormCourses) UpdateModule(ctx context.Context, module *courseModels.Module) error {
	db := r.db.WithContext(ctx)
	var existing courseModels.Module
	if err := db.Where("id = ? AND course_id = ?", module.ID, module.CourseID).First(&existing).Error; err != nil {
		return translate(err)
	}
	return translate(db.Model(&existing).Select("Title", "Description").Updates(module).Error)
}

func (r gormCourses) DeleteModule(ctx context.Context, courseID, moduleID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module courseModels.Module
		if err := tx.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("module_id = ?", moduleID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&module).Error
	})
}

func (r gormCourses) ReorderModules(ctx context.Context, courseID string, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course courseModels.Course
		if err := tx.Where("id = ?", courseID).First(&course).Error; err != nil {
			return translate(err)
		}
		var current []string
		if err := byOrder(tx.Model(&courseModels.Module{})).
			Where("course_id = ?", courseID).
			Pluck("id", &current).Error; err != nil {
			return err
		}
		return applyOrder(tx, &courseModels.Module{}, current, ids)
	})
}

func (r gormCourses) FindLesson(ctx context.Context, lessonID string) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	if err := r.db.WithContext(ctx).Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return nil, translate(err)
	}
	return &lesson, nil
}

// CreateLesson appends the lesson to the end of its module when Order is unset
func (r gormCourses) CreateLesson(ctx context.Context, lesson *courseModels.Lesson) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module courseModels.Module
		if err := tx.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
			return translate(err)
		}
		if lesson.Order <= 0 {
			var max int
			if err := tx.Model(&courseModels.Lesson{}).
				Where("module_id = ?", lesson.ModuleID).
				Select("COALESCE(MAX(order_index), 0)").
				Scan(&max).Error; err != nil {
				return err
			}
			lesson.Order = max + 1
		}
		return translate(tx.Create(lesson).Error)
	})
}

func (r gormCourses) UpdateLesson(ctx context.Context, lesson *courseModels.Lesson) error {
	db := r.db.WithContext(ctx)
	var existing courseModels.Lesson
	if err := db.Where("id = ? AND module_id = ?", lesson.ID, lesson.ModuleID).First(&existing).Error; err != nil {
		return translate(err)
	}
	err := db.Model(&existing).
		Select("Title", "VideoURL", "Content", "QuizID").
		Updates(lesson).Error
	return translate(err)
}

func (r gormCourses) DeleteLesson(ctx context.Context, moduleID, lessonID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND module_id = ?", lessonID, moduleID).
		Delete(&courseModels.Lesson{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r gormCourses) ReorderLessons(ctx context.Context, moduleID string, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module courseModels.Module
		if err := tx.Where("id = ?", moduleID).First(&module).Error; err != nil {
			return translate(err)
		}
		var current []string
		if err := byOrder(tx.Model(&courseModels.Lesson{})).
			Where("module_id = ?", moduleID).
			Pluck("id", &current).Error; err != nil {
			return err
		}
		return applyOrder(tx, &courseModels.Lesson{}, current, ids)
	})
}

// applyOrder rewrites order_index of the siblings of model to 1..n
func applyOrder(tx *gorm.DB, model interface{}, current, requested []string) error {
	sequence, err := resolveOrder(current, requested)
	if err != nil {
		return err
	}
	for i, id := range sequence {
		if err := tx.Model(model).Where("id = ?", id).UpdateColumn("order_index", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
