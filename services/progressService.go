package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	"lms/repository"

	"github.com/google/uuid"
)

const (
	// PassingScore is the lowest attempt score that completes a lesson
	PassingScore = 4
	// FallbackUserName goes on certificates of users without a local record
	FallbackUserName = "Aluno"
	DefaultXPBonus   = 10
)

var errAlreadyIssued = errors.New("certificate already issued")

// CertificateNotifier is told about every newly issued certificate
type CertificateNotifier interface {
	CertificateIssued(ctx context.Context, user models.User, cert courseModels.Certificate) error
}

// AttemptResult is the progress row after an attempt, plus the certificate
// when the attempt finished a course.
type AttemptResult struct {
	Progress    *courseModels.Progress    `json:"progress"`
	Certificate *courseModels.Certificate `json:"certificate,omitempty"`
}

type ProgressService struct {
	store    repository.Store
	xpBonus  int
	notifier CertificateNotifier
}

// NewProgressService builds the service; notifier may be nil
func NewProgressService(store repository.Store, xpBonus int, notifier CertificateNotifier) *ProgressService {
	if xpBonus <= 0 {
		xpBonus = DefaultXPBonus
	}
	return &ProgressService{store: store, xpBonus: xpBonus, notifier: notifier}
}

// RecordAttempt stores an attempt of userID on lessonID. A score of at least
// PassingScore, or force, completes the lesson; completed lessons stay completed.
func (s *ProgressService) RecordAttempt(ctx context.Context, userID, lessonID string, score int, force bool) (*AttemptResult, error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	if _, err := s.store.Courses().FindLesson(ctx, lessonID); err != nil {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, err)
	}

	passed := force || score >= PassingScore

	var (
		progress *courseModels.Progress
		err      error
	)
	// a concurrent first attempt may win the insert; the retry then updates its row
	for try := 0; try < 2; try++ {
		progress, err = s.saveAttempt(ctx, userID, lessonID, score, passed)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	result := &AttemptResult{Progress: progress}
	if passed {
		cert, err := s.CheckAndIssueCertificate(ctx, userID, lessonID)
		if err != nil {
			return nil, err
		}
		result.Certificate = cert
	}
	return result, nil
}

func (s *ProgressService) saveAttempt(ctx context.Context, userID, lessonID string, score int, passed bool) (*courseModels.Progress, error) {
	var progress *courseModels.Progress
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		progress, err = tx.Progress().Find(ctx, userID, lessonID)
		if errors.Is(err, repository.ErrNotFound) {
			progress = &courseModels.Progress{
				ID:       uuid.NewString(),
				UserID:   userID,
				LessonID: lessonID,
				Status:   courseModels.ProgressInProgress,
			}
		} else if err != nil {
			return err
		}

		progress.Attempts++
		progress.Score = score
		if passed && !progress.IsCompleted() {
			now := time.Now()
			progress.Status = courseModels.ProgressCompleted
			progress.CompletedAt = &now
		}
		return tx.Progress().Save(ctx, progress)
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// MarkCompleted completes a lesson regardless of score, e.g. at the end of its video
func (s *ProgressService) MarkCompleted(ctx context.Context, userID, lessonID string) (*AttemptResult, error) {
	return s.RecordAttempt(ctx, userID, lessonID, 0, true)
}

// SubmitQuiz grades answers against the lesson's quiz and records the result as an attempt
func (s *ProgressService) SubmitQuiz(ctx context.Context, userID, lessonID string, answers []int) (*AttemptResult, error) {
	lesson, err := s.store.Courses().FindLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, err)
	}
	if lesson.QuizID == "" {
		return nil, ErrNoQuiz
	}
	quiz, err := s.store.Quizzes().FindByID(ctx, lesson.QuizID)
	if err != nil {
		return nil, fmt.Errorf("quiz %s: %w", lesson.QuizID, err)
	}
	return s.RecordAttempt(ctx, userID, lessonID, quiz.Grade(answers), false)
}

// CheckAndIssueCertificate issues a certificate when userID has completed every
// lesson of the course holding lessonID. It returns nil when nothing was issued.
func (s *ProgressService) CheckAndIssueCertificate(ctx context.Context, userID, lessonID string) (*courseModels.Certificate, error) {
	course, err := s.store.Courses().FindByLesson(ctx, lessonID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	completed, err := s.completedLessons(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueIfComplete(ctx, userID, course, completed)
}

// ReconcileCertificates issues every certificate that is due but missing and
// returns how many were issued.
func (s *ProgressService) ReconcileCertificates(ctx context.Context) (int, error) {
	courses, err := s.store.Courses().List(ctx)
	if err != nil {
		return 0, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return 0, err
	}

	issued := 0
	for _, user := range users {
		completed, err := s.completedLessons(ctx, user.ID)
		if err != nil {
			return issued, err
		}
		if len(completed) == 0 {
			continue
		}
		for i := range courses {
			cert, err := s.issueIfComplete(ctx, user.ID, &courses[i], completed)
			if err != nil {
				return issued, err
			}
			if cert != nil {
				issued++
			}
		}
	}
	return issued, nil
}

func (s *ProgressService) completedLessons(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.store.Progress().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[string]bool, len(rows))
	for _, p := range rows {
		if p.IsCompleted() {
			completed[p.LessonID] = true
		}
	}
	return completed, nil
}

func (s *ProgressService) issueIfComplete(ctx context.Context, userID string, course *courseModels.Course, completed map[string]bool) (*courseModels.Certificate, error) {
	lessonIDs := course.LessonIDs()
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	for _, id := range lessonIDs {
		if !completed[id] {
			return nil, nil
		}
	}

	var (
		cert *courseModels.Certificate
		user *models.User
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		name := FallbackUserName
		if u != nil && u.Name != "" {
			name = u.Name
		}
		cert = &courseModels.Certificate{
			ID:          uuid.NewString(),
			UserID:      userID,
			CourseID:    course.ID,
			UserName:    name,
			CourseTitle: course.Title,
			IssuedAt:    time.Now(),
		}
		if err := tx.Certificates().Create(ctx, cert); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return errAlreadyIssued
			}
			return err
		}

		if u == nil {
			return nil
		}
		user, err = tx.Users().AddXP(ctx, userID, s.xpBonus)
		return err
	})
	if errors.Is(err, errAlreadyIssued) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}

	log.Printf("[PROGRESS] Issued certificate %s to %s for course %s", cert.ID, userID, course.ID)
	if s.notifier != nil && user != nil {
		if err := s.notifier.CertificateIssued(ctx, *user, *cert); err != nil {
			log.Printf("[PROGRESS] Failed to send certificate notification to %s: %v", userID, err)
		}
	}
	return cert, nil
}

func (s *ProgressService) ListAll(ctx context.Context) ([]courseModels.Progress, error) {
	return s.store.Progress().List(ctx)
}

func (s *ProgressService) ListByUser(ctx context.Context, userID string) ([]courseModels.Progress, error) {
	return s.store.Progress().ListByUser(ctx, userID)
}

// Certificates lists the certificates of userID, or all of them when userID is empty
func (s *ProgressService) Certificates(ctx context.Context, userID string) ([]courseModels.Certificate, error) {
	if userID == "" {
		return s.store.Certificates().List(ctx)
	}
	return s.store.Certificates().ListByUser(ctx, userID)
}
