package services

import (
	"context"
	"fmt"
	"strings"

	courseModels "lms/models/course"
	"lms/repository"

	"github.com/google/uuid"
)

const (
	DefaultCourseTitle = "Novo Curso"
	DefaultModuleTitle = "Novo Módulo"
	DefaultLessonTitle = "Nova Aula"
)

// CourseInput carries the editable course fields. Nil fields are left unchanged on update.
type CourseInput struct {
	Title       *string
	Description *string
	Categories  []string
}

type ModuleInput struct {
	Title       *string
	Description *string
}

type LessonInput struct {
	Title    *string
	VideoURL *string
	Content  *string
	QuizID   *string
}

type CourseService struct {
	store repository.Store
}

func NewCourseService(store repository.Store) *CourseService {
	return &CourseService{store: store}
}

func (s *CourseService) List(ctx context.Context) ([]courseModels.Course, error) {
	return s.store.Courses().List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id string) (*courseModels.Course, error) {
	return s.store.Courses().FindByID(ctx, id)
}

// CoursesForUser returns the catalog filtered by the user's category
func (s *CourseService) CoursesForUser(ctx context.Context, userID string) ([]courseModels.Course, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	courses, err := s.store.Courses().List(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]courseModels.Course, 0, len(courses))
	for i := range courses {
		if courses[i].VisibleTo(user.Category) {
			visible = append(visible, courses[i])
		}
	}
	return visible, nil
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*courseModels.Course, error) {
	course := &courseModels.Course{
		ID:          uuid.NewString(),
		Title:       titleOr(in.Title, DefaultCourseTitle),
		Description: valueOr(in.Description),
		Categories:  cleanCategories(in.Categories),
		Modules:     []courseModels.Module{},
	}
	if err := s.store.Courses().Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id string, in CourseInput) (*courseModels.Course, error) {
	courses := s.store.Courses()
	course, err := courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		course.Title = titleOr(in.Title, course.Title)
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Categories != nil {
		course.Categories = cleanCategories(in.Categories)
	}

	if err := courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return courses.FindByID(ctx, id)
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	return s.store.Courses().Delete(ctx, id)
}

func (s *CourseService) CreateModule(ctx context.Context, courseID string, in ModuleInput) (*courseModels.Module, error) {
	module := &courseModels.Module{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       titleOr(in.Title, DefaultModuleTitle),
		Description: valueOr(in.Description),
		Lessons:     []courseModels.Lesson{},
	}
	if err := s.store.Courses().CreateModule(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) UpdateModule(ctx context.Context, courseID, moduleID string, in ModuleInput) (*courseModels.Module, error) {
	courses := s.store.Courses()
	module, err := courses.FindModule(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		module.Title = titleOr(in.Title, module.Title)
	}
	if in.Description != nil {
		module.Description = *in.Description
	}
	if err := courses.UpdateModule(ctx, module); err != nil {
		return nil, err
	}
	return courses.FindModule(ctx, courseID, moduleID)
}

func (s *CourseService) DeleteModule(ctx context.Context, courseID, moduleID string) error {
	return s.store.Courses().DeleteModule(ctx, courseID, moduleID)
}

// ReorderModules applies the requested sequence and returns the course in its new order
func (s *CourseService) ReorderModules(ctx context.Context, courseID string, ids []string) (*courseModels.Course, error) {
	if err := s.store.Courses().ReorderModules(ctx, courseID, ids); err != nil {
		return nil, err
	}
	return s.store.Courses().FindByID(ctx, courseID)
}

func (s *CourseService) CreateLesson(ctx context.Context, courseID, moduleID string, in LessonInput) (*courseModels.Lesson, error) {
	courses := s.store.Courses()
	if _, err := courses.FindModule(ctx, courseID, moduleID); err != nil {
		return nil, err
	}

	lesson := &courseModels.Lesson{
		ID:       uuid.NewString(),
		ModuleID: moduleID,
		Title:    titleOr(in.Title, DefaultLessonTitle),
		VideoURL: valueOr(in.VideoURL),
		Content:  valueOr(in.Content),
		QuizID:   valueOr(in.QuizID),
	}
	if err := courses.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) UpdateLesson(ctx context.Context, courseID, moduleID, lessonID string, in LessonInput) (*courseModels.Lesson, error) {
	courses := s.store.Courses()
	if _, err := courses.FindModule(ctx, courseID, moduleID); err != nil {
		return nil, err
	}
	lesson, err := courses.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.ModuleID != moduleID {
		return nil, repository.ErrNotFound
	}

	if in.Title != nil {
		lesson.Title = titleOr(in.Title, lesson.Title)
	}
	if in.VideoURL != nil {
		lesson.VideoURL = *in.VideoURL
	}
	if in.Content != nil {
		lesson.Content = *in.Content
	}
	if in.QuizID != nil {
		lesson.QuizID = strings.TrimSpace(*in.QuizID)
	}

	if err := courses.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return courses.FindLesson(ctx, lessonID)
}

func (s *CourseService) DeleteLesson(ctx context.Context, courseID, moduleID, lessonID string) error {
	if _, err := s.store.Courses().FindModule(ctx, courseID, moduleID); err != nil {
		return err
	}
	return s.store.Courses().DeleteLesson(ctx, moduleID, lessonID)
}

// ReorderLessons applies the requested sequence and returns the module in its new order
func (s *CourseService) ReorderLessons(ctx context.Context, courseID, moduleID string, ids []string) (*courseModels.Module, error) {
	courses := s.store.Courses()
	if _, err := courses.FindModule(ctx, courseID, moduleID); err != nil {
		return nil, err
	}
	if err := courses.ReorderLessons(ctx, moduleID, ids); err != nil {
		return nil, err
	}
	return courses.FindModule(ctx, courseID, moduleID)
}

// titleOr returns the trimmed title, or fallback when it is missing or blank
func titleOr(title *string, fallback string) string {
	if title == nil || strings.TrimSpace(*title) == "" {
		return fallback
	}
	return strings.TrimSpace(*title)
}

func valueOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func cleanCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	seen := map[string]bool{}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
