package repository

import (
	"context"
	"sort"
	"time"

	courseModels "lms/models/course"
)

type fileCourses struct {
	s    *FileStore
	held bool
}

func (r fileCourses) courseIndex(id string) int {
	for i := range r.s.data.courses {
		if r.s.data.courses[i].ID == id {
			return i
		}
	}
	return -1
}

func (r fileCourses) moduleIndex(moduleID string) (int, int) {
	for ci := range r.s.data.courses {
		for mi := range r.s.data.courses[ci].Modules {
			if r.s.data.courses[ci].Modules[mi].ID == moduleID {
				return ci, mi
			}
		}
	}
	return -1, -1
}

func (r fileCourses) lessonIndex(lessonID string) (int, int, int) {
	for ci := range r.s.data.courses {
		for mi := range r.s.data.courses[ci].Modules {
			for li, l := range r.s.data.courses[ci].Modules[mi].Lessons {
				if l.ID == lessonID {
					return ci, mi, li
				}
			}
		}
	}
	return -1, -1, -1
}

func (r fileCourses) List(ctx context.Context) ([]courseModels.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]courseModels.Course, 0, len(r.s.data.courses))
	for i := range r.s.data.courses {
		out = append(out, cloneCourse(r.s.data.courses[i]))
	}
	return out, nil
}

func (r fileCourses) FindByID(ctx context.Context, id string) (*courseModels.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := r.courseIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	course := cloneCourse(r.s.data.courses[i])
	return &course, nil
}

func (r fileCourses) FindByLesson(ctx context.Context, lessonID string) (*courseModels.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ci, _, _ := r.lessonIndex(lessonID)
	if ci < 0 {
		return nil, ErrNotFound
	}
	course := cloneCourse(r.s.data.courses[ci])
	return &course, nil
}

func (r fileCourses) Create(ctx context.Context, course *courseModels.Course) error {
	return r.s.write(r.held, func() error {
		if r.courseIndex(course.ID) >= 0 {
			return ErrDuplicate
		}
		now := time.Now()
		stamp(&course.CreatedAt, &course.UpdatedAt, now)
		for mi := range course.Modules {
			m := &course.Modules[mi]
			m.CourseID = course.ID
			stamp(&m.CreatedAt, &m.UpdatedAt, now)
			for li := range m.Lessons {
				l := &m.Lessons[li]
				l.ModuleID = m.ID
				stamp(&l.CreatedAt, &l.UpdatedAt, now)
			}
		}
		r.s.data.courses = append(r.s.data.courses, cloneCourse(*course))
		return nil
	}, coursesFile)
}

func (r fileCourses) Update(ctx context.Context, course *courseModels.Course) error {
	return r.s.write(r.held, func() error {
		i := r.courseIndex(course.ID)
		if i < 0 {
			return ErrNotFound
		}
		c := &r.s.data.courses[i]
		c.Title = course.Title
		c.Description = course.Description
		c.Categories = append(c.Categories[:0:0], course.Categories...)
		c.UpdatedAt = time.Now()
		return nil
	}, coursesFile)
}

func (r fileCourses) Delete(ctx context.Context, id string) error {
	return r.s.write(r.held, func() error {
		i := r.courseIndex(id)
		if i < 0 {
			return ErrNotFound
		}
		r.s.data.courses = append(r.s.data.courses[:i], r.s.data.courses[i+1:]...)
		return nil
	}, coursesFile)
}

func (r fileCourses) FindModule(ctx context.Context, courseID, moduleID string) (*courseModels.Module, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ci, mi := r.moduleIndex(moduleID)
	if ci < 0 || r.s.data.courses[ci].ID != courseID {
		return nil, ErrNotFound
	}
	module := cloneModule(r.s.data.courses[ci].Modules[mi])
	return &module, nil
}

func (r fileCourses) CreateModule(ctx context.Context, module *courseModels.Module) error {
	return r.s.write(r.held, func() error {
		ci := r.courseIndex(module.CourseID)
		if ci < 0 {
			return ErrNotFound
		}
		if c, _ := r.moduleIndex(module.ID); c >= 0 {
			return ErrDuplicate
		}
		course := &r.s.data.courses[ci]
		if module.Order <= 0 {
			max := 0
			for _, m := range course.Modules {
				if m.Order > max {
					max = m.Order
				}
			}
			module.Order = max + 1
		}
		stamp(&module.CreatedAt, &module.UpdatedAt, time.Now())
		course.Modules = append(course.Modules, cloneModule(*module))
		sortModules(course.Modules)
		return nil
	}, coursesFile)
}

func (r fileCourses) UpdateModule(ctx context.Context, module *courseModels.Module) error {
	return r.s.write(r.held, func() error {
		ci, mi := r.moduleIndex(module.ID)
		if ci < 0 || r.s.data.courses[ci].ID != module.CourseID {
			return ErrNotFound
		}
		m := &r.s.data.courses[ci].Modules[mi]
		m.Title = module.Title
		m.Description = module.Description
		m.UpdatedAt = time.Now()
		return nil
	}, coursesFile)
}

func (r fileCourses) DeleteModule(ctx context.Context, courseID, moduleID string) error {
	return r.s.write(r.held, func() error {
		ci, mi := r.moduleIndex(moduleID)
		if ci < 0 || r.s.data.courses[ci].ID != courseID {
			return ErrNotFound
		}
		modules := r.s.data.courses[ci].Modules
		r.s.data.courses[ci].Modules = append(modules[:mi], modules[mi+1:]...)
		return nil
	}, coursesFile)
}

func (r fileCourses) ReorderModules(ctx context.Context, courseID string, ids []string) error {
	return r.s.write(r.held, func() error {
		ci := r.courseIndex(courseID)
		if ci < 0 {
			return ErrNotFound
		}
		modules := r.s.data.courses[ci].Modules
		current := make([]string, len(modules))
		for i, m := range modules {
			current[i] = m.ID
		}
		sequence, err := resolveOrder(current, ids)
		if err != nil {
			return err
		}
		position := positions(sequence)
		for i := range modules {
			modules[i].Order = position[modules[i].ID]
		}
		sortModules(modules)
		return nil
	}, coursesFile)
}

func (r fileCourses) FindLesson(ctx context.Context, lessonID string) (*courseModels.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ci, mi, li := r.lessonIndex(lessonID)
	if ci < 0 {
		return nil, ErrNotFound
	}
	lesson := r.s.data.courses[ci].Modules[mi].Lessons[li]
	return &lesson, nil
}

func (r fileCourses) CreateLesson(ctx context.Context, lesson *courseModels.Lesson) error {
	return r.s.write(r.held, func() error {
		ci, mi := r.moduleIndex(lesson.ModuleID)
		if ci < 0 {
			return ErrNotFound
		}
		if c, _, _ := r.lessonIndex(lesson.ID); c >= 0 {
			return ErrDuplicate
		}
		module := &r.s.data.courses[ci].Modules[mi]
		if lesson.Order <= 0 {
			max := 0
			for _, l := range module.Lessons {
				if l.Order > max {
					max = l.Order
				}
			}
			lesson.Order = max + 1
		}
		stamp(&lesson.CreatedAt, &lesson.UpdatedAt, time.Now())
		module.Lessons = append(module.Lessons, *lesson)
		sortLessons(module.Lessons)
		return nil
	}, coursesFile)
}

func (r fileCourses) UpdateLesson(ctx context.Context, lesson *courseModels.Lesson) error {
	return r.s.write(r.held, func() error {
		ci, mi, li := r.lessonIndex(lesson.ID)
		if ci < 0 || r.s.data.courses[ci].Modules[mi].ID != lesson.ModuleID {
			return ErrNotFound
		}
		l := &r.s.data.courses[ci].Modules[mi].Lessons[li]
		l.Title = lesson.Title
		l.VideoURL = lesson.VideoURL
		l.Content = lesson.Content
		l.QuizID = lesson.QuizID
		l.UpdatedAt = time.Now()
		return nil
	}, coursesFile)
}

func (r fileCourses) DeleteLesson(ctx context.Context, moduleID, lessonID string) error {
	return r.s.write(r.held, func() error {
		ci, mi, li := r.lessonIndex(lessonID)
		if ci < 0 || r.s.data.courses[ci].Modules[mi].ID != moduleID {
			return ErrNotFound
		}
		module := &r.s.data.courses[ci].Modules[mi]
		module.Lessons = append(module.Lessons[:li], module.Lessons[li+1:]...)
		return nil
	}, coursesFile)
}

func (r fileCourses) ReorderLessons(ctx context.Context, moduleID string, ids []string) error {
	return r.s.write(r.held, func() error {
		ci, mi := r.moduleIndex(moduleID)
		if ci < 0 {
			return ErrNotFound
		}
		lessons := r.s.data.courses[ci].Modules[mi].Lessons
		current := make([]string, len(lessons))
		for i, l := range lessons {
			current[i] = l.ID
		}
		sequence, err := resolveOrder(current, ids)
		if err != nil {
			return err
		}
		position := positions(sequence)
		for i := range lessons {
			lessons[i].Order = position[lessons[i].ID]
		}
		sortLessons(lessons)
		return nil
	}, coursesFile)
}

func positions(sequence []string) map[string]int {
	out := make(map[string]int, len(sequence))
	for i, id := range sequence {
		out[id] = i + 1
	}
	return out
}

func stamp(created, updated *time.Time, now time.Time) {
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func sortModules(modules []courseModels.Module) {
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Order < modules[j].Order })
}

func sortLessons(lessons []courseModels.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
}

func cloneCourse(c courseModels.Course) courseModels.Course {
	if c.Categories != nil {
		c.Categories = append(c.Categories[:0:0], c.Categories...)
	}
	modules := make([]courseModels.Module, len(c.Modules))
	for i := range c.Modules {
		modules[i] = cloneModule(c.Modules[i])
	}
	sortModules(modules)
	c.Modules = modules
	return c
}

func cloneModule(m courseModels.Module) courseModels.Module {
	lessons := append([]courseModels.Lesson{}, m.Lessons...)
	sortLessons(lessons)
	m.Lessons = lessons
	return m
}
