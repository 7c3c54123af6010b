package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"lms/models"
	courseModels "lms/models/course"
	"lms/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFileStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func newSQLiteStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "lms.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Permission{}, &models.LoginTracking{},
		&courseModels.Course{}, &courseModels.Module{}, &courseModels.Lesson{},
		&courseModels.Progress{}, &courseModels.Certificate{}, &courseModels.Quiz{},
	))
	return repository.NewGormStore(db)
}

var backends = map[string]func(t *testing.T) repository.Store{
	"gorm": newSQLiteStore,
	"file": newFileStore,
}

// forEachStore runs fn once per storage backend, each on an empty store
func forEachStore(t *testing.T, fn func(t *testing.T, store repository.Store)) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, open(t))
		})
	}
}

// seedScenario creates course c1 with module m1 holding lessons l1 and l2, and user u1
func seedScenario(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Courses().Create(ctx, &courseModels.Course{ID: "c1", Title: "Fibra Óptica"}))
	require.NoError(t, store.Courses().CreateModule(ctx, &courseModels.Module{ID: "m1", CourseID: "c1", Title: "Básico"}))
	require.NoError(t, store.Courses().CreateLesson(ctx, &courseModels.Lesson{ID: "l1", ModuleID: "m1", Title: "Aula 1"}))
	require.NoError(t, store.Courses().CreateLesson(ctx, &courseModels.Lesson{ID: "l2", ModuleID: "m1", Title: "Aula 2"}))
	require.NoError(t, store.Users().Save(ctx, &models.User{ID: "u1", Name: "Ana", Email: "ana@corp.com"}))
}

type recordingNotifier struct {
	mu    sync.Mutex
	certs []courseModels.Certificate
}

func (n *recordingNotifier) CertificateIssued(ctx context.Context, user models.User, cert courseModels.Certificate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.certs = append(n.certs, cert)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.certs)
}
