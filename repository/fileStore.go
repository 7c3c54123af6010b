package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"lms/models"
	courseModels "lms/models/course"
)

const (
	usersFile        = "users.json"
	coursesFile      = "courses.json"
	progressFile     = "progress.json"
	certificatesFile = "certificates.json"
	quizzesFile      = "quizzes.json"
	permissionsFile  = "permissions.json"
	loginsFile       = "logins.json"
)

type fileData struct {
	users        []models.User
	courses      []courseModels.Course
	progress     []courseModels.Progress
	certificates []courseModels.Certificate
	quizzes      []courseModels.Quiz
	permissions  []models.Permission
	logins       []models.LoginTracking
}

// FileStore keeps every collection in memory and mirrors it to one JSON
// document per collection under dir. Writes are serialized; a write is on
// disk before the call returns.
type FileStore struct {
	dir string

	txMu sync.Mutex   // held by every write and for the whole of a Transaction
	mu   sync.RWMutex // guards data and dirty
	data fileData

	// files touched by the running transaction, nil outside one
	dirty map[string]bool
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{dir: dir}
	s.load()
	return s, nil
}

func (s *FileStore) Users() UserRepository               { return fileUsers{s, false} }
func (s *FileStore) Courses() CourseRepository           { return fileCourses{s, false} }
func (s *FileStore) Progress() ProgressRepository        { return fileProgress{s, false} }
func (s *FileStore) Certificates() CertificateRepository { return fileCertificates{s, false} }
func (s *FileStore) Quizzes() QuizRepository             { return fileQuizzes{s, false} }
func (s *FileStore) Permissions() PermissionRepository   { return filePermissions{s, false} }

// Transaction buffers the files written by fn and flushes them when fn
// succeeds. On failure the in-memory state is reloaded from disk.
func (s *FileStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.dirty = map[string]bool{}
	s.mu.Unlock()

	err := fn(fileTx{s})

	s.mu.Lock()
	defer s.mu.Unlock()
	dirty := s.dirty
	s.dirty = nil

	if err != nil {
		s.load()
		return err
	}
	for name := range dirty {
		if err := s.flush(name); err != nil {
			s.load()
			return err
		}
	}
	return nil
}

// fileTx is the Store handed to a Transaction callback. Its repositories
// assume txMu is already held.
type fileTx struct{ s *FileStore }

func (t fileTx) Users() UserRepository               { return fileUsers{t.s, true} }
func (t fileTx) Courses() CourseRepository           { return fileCourses{t.s, true} }
func (t fileTx) Progress() ProgressRepository        { return fileProgress{t.s, true} }
func (t fileTx) Certificates() CertificateRepository { return fileCertificates{t.s, true} }
func (t fileTx) Quizzes() QuizRepository             { return fileQuizzes{t.s, true} }
func (t fileTx) Permissions() PermissionRepository   { return filePermissions{t.s, true} }

// Nested transactions join the outer one
func (t fileTx) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

// write runs fn under the write lock and persists the named files when it succeeds
func (s *FileStore) write(held bool, fn func() error, files ...string) error {
	if !held {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	for _, name := range files {
		if s.dirty != nil {
			s.dirty[name] = true
			continue
		}
		if err := s.flush(name); err != nil {
			s.load()
			return err
		}
	}
	return nil
}

func (s *FileStore) load() {
	s.data = fileData{
		users:        readCollection[models.User](s.dir, usersFile),
		courses:      readCollection[courseModels.Course](s.dir, coursesFile),
		progress:     readCollection[courseModels.Progress](s.dir, progressFile),
		certificates: readCollection[courseModels.Certificate](s.dir, certificatesFile),
		quizzes:      readCollection[courseModels.Quiz](s.dir, quizzesFile),
		permissions:  readCollection[models.Permission](s.dir, permissionsFile),
		logins:       readCollection[models.LoginTracking](s.dir, loginsFile),
	}
}

// readCollection treats a missing, empty or malformed file as an empty collection
func readCollection[T any](dir, name string) []T {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		log.Printf("[FILESTORE] Failed to read %s: %v", name, err)
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("[FILESTORE] %s is malformed, starting with an empty collection: %v", name, err)
		return nil
	}
	return out
}

func (s *FileStore) flush(name string) error {
	var v interface{}
	switch name {
	case usersFile:
		v = s.data.users
	case coursesFile:
		v = s.data.courses
	case progressFile:
		v = s.data.progress
	case certificatesFile:
		v = s.data.certificates
	case quizzesFile:
		v = s.data.quizzes
	case permissionsFile:
		v = s.data.permissions
	case loginsFile:
		v = s.data.logins
	default:
		return fmt.Errorf("unknown collection %s", name)
	}
	return writeJSON(filepath.Join(s.dir, name), v)
}

// writeJSON replaces path through a temp file so readers never see a partial document
func writeJSON(path string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type fileUsers struct {
	s    *FileStore
	held bool
}

func (r fileUsers) indexOf(id string) int {
	for i := range r.s.data.users {
		if r.s.data.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r fileUsers) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]models.User(nil), r.s.data.users...), nil
}

func (r fileUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	user := r.s.data.users[i]
	return &user, nil
}

func (r fileUsers) Save(ctx context.Context, user *models.User) error {
	return r.s.write(r.held, func() error {
		now := time.Now()
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
		user.UpdatedAt = now
		if user.Role == "" {
			user.Role = models.RoleStudent
		}

		if i := r.indexOf(user.ID); i >= 0 {
			r.s.data.users[i] = *user
		} else {
			r.s.data.users = append(r.s.data.users, *user)
		}
		return nil
	}, usersFile)
}

func (r fileUsers) Delete(ctx context.Context, id string) error {
	return r.s.write(r.held, func() error {
		i := r.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		d := &r.s.data
		d.users = append(d.users[:i], d.users[i+1:]...)
		d.progress = filterOut(d.progress, func(p courseModels.Progress) bool { return p.UserID == id })
		d.certificates = filterOut(d.certificates, func(c courseModels.Certificate) bool { return c.UserID == id })
		d.permissions = filterOut(d.permissions, func(p models.Permission) bool { return p.UserID == id })
		d.logins = filterOut(d.logins, func(l models.LoginTracking) bool { return l.UserID == id })
		return nil
	}, usersFile, progressFile, certificatesFile, permissionsFile, loginsFile)
}

func (r fileUsers) AddXP(ctx context.Context, id string, amount int) (*models.User, error) {
	var user models.User
	err := r.s.write(r.held, func() error {
		i := r.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		r.s.data.users[i].XP += amount
		r.s.data.users[i].UpdatedAt = time.Now()
		user = r.s.data.users[i]
		return nil
	}, usersFile)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r fileUsers) SetCategory(ctx context.Context, id, category string) (*models.User, error) {
	var user models.User
	err := r.s.write(r.held, func() error {
		i := r.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		r.s.data.users[i].Category = category
		r.s.data.users[i].UpdatedAt = time.Now()
		user = r.s.data.users[i]
		return nil
	}, usersFile)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r fileUsers) Ranking(ctx context.Context, limit int) ([]models.User, error) {
	users, _ := r.List(ctx)
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.XP != b.XP {
			return a.XP > b.XP
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r fileUsers) RecordLogin(ctx context.Context, entry *models.LoginTracking) error {
	return r.s.write(r.held, func() error {
		var next uint
		for _, l := range r.s.data.logins {
			if l.ID > next {
				next = l.ID
			}
		}
		entry.ID = next + 1
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now()
		}
		r.s.data.logins = append(r.s.data.logins, *entry)
		return nil
	}, loginsFile)
}

func (r fileUsers) Logins(ctx context.Context, userID string) ([]models.LoginTracking, error) {
	r.s.mu.RLock()
	var out []models.LoginTracking
	for _, l := range r.s.data.logins {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type filePermissions struct {
	s    *FileStore
	held bool
}

func (r filePermissions) Grant(ctx context.Context, userID, role string, permissions []string) error {
	return r.s.write(r.held, func() error {
		d := &r.s.data
		d.permissions = filterOut(d.permissions, func(p models.Permission) bool { return p.UserID == userID })

		var next uint
		for _, p := range d.permissions {
			if p.ID > next {
				next = p.ID
			}
		}
		seen := map[string]bool{}
		for _, perm := range permissions {
			if seen[perm] {
				continue
			}
			seen[perm] = true
			next++
			d.permissions = append(d.permissions, models.Permission{ID: next, UserID: userID, Role: role, Permission: perm})
		}
		return nil
	}, permissionsFile)
}

func (r filePermissions) Has(ctx context.Context, userID, permission string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.permissions {
		if p.UserID == userID && p.Permission == permission {
			return true, nil
		}
	}
	return false, nil
}

func (r filePermissions) ListByUser(ctx context.Context, userID string) ([]models.Permission, error) {
	r.s.mu.RLock()
	var out []models.Permission
	for _, p := range r.s.data.permissions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Permission < out[j].Permission })
	return out, nil
}

// filterOut drops every element matching drop, reusing the backing array
func filterOut[T any](items []T, drop func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if !drop(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
