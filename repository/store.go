// Package repository hides where LMS data lives. Services talk to the Store
// interface; GormStore keeps it in a SQL database and FileStore in one JSON
// file per entity type.
package repository

import (
	"context"
	"errors"

	"lms/models"
	courseModels "lms/models/course"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrInvalidOrder = errors.New("invalid order list")
)

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// Save inserts the user or replaces every field of an existing one.
	Save(ctx context.Context, user *models.User) error
	// Delete removes the user together with its progress, certificates,
	// permissions and login history.
	Delete(ctx context.Context, id string) error
	AddXP(ctx context.Context, id string, amount int) (*models.User, error)
	SetCategory(ctx context.Context, id, category string) (*models.User, error)
	// Ranking returns users by xp descending, then name and id ascending.
	// A limit <= 0 returns everybody.
	Ranking(ctx context.Context, limit int) ([]models.User, error)
	RecordLogin(ctx context.Context, entry *models.LoginTracking) error
	Logins(ctx context.Context, userID string) ([]models.LoginTracking, error)
}

// CourseRepository owns the course → module → lesson tree. Courses are
// always returned with modules and lessons sorted by order.
type CourseRepository interface {
	List(ctx context.Context) ([]courseModels.Course, error)
	FindByID(ctx context.Context, id string) (*courseModels.Course, error)
	FindByLesson(ctx context.Context, lessonID string) (*courseModels.Course, error)
	Create(ctx context.Context, course *courseModels.Course) error
	Update(ctx context.Context, course *courseModels.Course) error
	Delete(ctx context.Context, id string) error

	FindModule(ctx context.Context, courseID, moduleID string) (*courseModels.Module, error)
	CreateModule(ctx context.Context, module *courseModels.Module) error
	UpdateModule(ctx context.Context, module *courseModels.Module) error
	DeleteModule(ctx context.Context, courseID, moduleID string) error
	ReorderModules(ctx context.Context, courseID string, ids []string) error

	FindLesson(ctx context.Context, lessonID string) (*courseModels.Lesson, error)
	CreateLesson(ctx context.Context, lesson *courseModels.Lesson) error
	UpdateLesson(ctx context.Context, lesson *courseModels.Lesson) error
	DeleteLesson(ctx context.Context, moduleID, lessonID string) error
	ReorderLessons(ctx context.Context, moduleID string, ids []string) error
}

type ProgressRepository interface {
	Find(ctx context.Context, userID, lessonID string) (*courseModels.Progress, error)
	Save(ctx context.Context, progress *courseModels.Progress) error
	ListByUser(ctx context.Context, userID string) ([]courseModels.Progress, error)
	List(ctx context.Context) ([]courseModels.Progress, error)
}

type CertificateRepository interface {
	// Create fails with ErrDuplicate when the user already holds a
	// certificate for the course.
	Create(ctx context.Context, cert *courseModels.Certificate) error
	ListByUser(ctx context.Context, userID string) ([]courseModels.Certificate, error)
	List(ctx context.Context) ([]courseModels.Certificate, error)
}

type QuizRepository interface {
	List(ctx context.Context) ([]courseModels.Quiz, error)
	FindByID(ctx context.Context, id string) (*courseModels.Quiz, error)
	Create(ctx context.Context, quiz *courseModels.Quiz) error
	Count(ctx context.Context) (int64, error)
}

type PermissionRepository interface {
	// Grant replaces every permission of the user with the given set.
	Grant(ctx context.Context, userID, role string, permissions []string) error
	Has(ctx context.Context, userID, permission string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Permission, error)
}

type Store interface {
	Users() UserRepository
	Courses() CourseRepository
	Progress() ProgressRepository
	Certificates() CertificateRepository
	Quizzes() QuizRepository
	Permissions() PermissionRepository

	// Transaction runs fn against a Store whose writes commit together.
	// fn must only use the Store it is given.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
