package repository

import (
	"context"
	"sort"
	"time"

	courseModels "lms/models/course"
)

type fileProgress struct {
	s    *FileStore
	held bool
}

func (r fileProgress) Find(ctx context.Context, userID, lessonID string) (*courseModels.Progress, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.progress {
		if p.UserID == userID && p.LessonID == lessonID {
			return cloneProgress(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r fileProgress) Save(ctx context.Context, progress *courseModels.Progress) error {
	return r.s.write(r.held, func() error {
		index := -1
		for i, p := range r.s.data.progress {
			if p.ID == progress.ID {
				index = i
				continue
			}
			if p.UserID == progress.UserID && p.LessonID == progress.LessonID {
				return ErrDuplicate
			}
		}

		stamp(&progress.CreatedAt, &progress.UpdatedAt, time.Now())
		if index >= 0 {
			r.s.data.progress[index] = *cloneProgress(*progress)
		} else {
			r.s.data.progress = append(r.s.data.progress, *cloneProgress(*progress))
		}
		return nil
	}, progressFile)
}

func (r fileProgress) ListByUser(ctx context.Context, userID string) ([]courseModels.Progress, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []courseModels.Progress
	for _, p := range r.s.data.progress {
		if p.UserID == userID {
			out = append(out, *cloneProgress(p))
		}
	}
	return out, nil
}

func (r fileProgress) List(ctx context.Context) ([]courseModels.Progress, error) {
	r.s.mu.RLock()
	out := make([]courseModels.Progress, 0, len(r.s.data.progress))
	for _, p := range r.s.data.progress {
		out = append(out, *cloneProgress(p))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func cloneProgress(p courseModels.Progress) *courseModels.Progress {
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		p.CompletedAt = &at
	}
	return &p
}

type fileCertificates struct {
	s    *FileStore
	held bool
}

func (r fileCertificates) Create(ctx context.Context, cert *courseModels.Certificate) error {
	return r.s.write(r.held, func() error {
		for _, c := range r.s.data.certificates {
			if c.ID == cert.ID || (c.UserID == cert.UserID && c.CourseID == cert.CourseID) {
				return ErrDuplicate
			}
		}
		if cert.IssuedAt.IsZero() {
			cert.IssuedAt = time.Now()
		}
		r.s.data.certificates = append(r.s.data.certificates, *cert)
		return nil
	}, certificatesFile)
}

func (r fileCertificates) ListByUser(ctx context.Context, userID string) ([]courseModels.Certificate, error) {
	r.s.mu.RLock()
	var out []courseModels.Certificate
	for _, c := range r.s.data.certificates {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	r.s.mu.RUnlock()

	sortCertificates(out)
	return out, nil
}

func (r fileCertificates) List(ctx context.Context) ([]courseModels.Certificate, error) {
	r.s.mu.RLock()
	out := append([]courseModels.Certificate(nil), r.s.data.certificates...)
	r.s.mu.RUnlock()

	sortCertificates(out)
	return out, nil
}

// newest first
func sortCertificates(certs []courseModels.Certificate) {
	sort.SliceStable(certs, func(i, j int) bool { return certs[i].IssuedAt.After(certs[j].IssuedAt) })
}

type fileQuizzes struct {
	s    *FileStore
	held bool
}

func (r fileQuizzes) List(ctx context.Context) ([]courseModels.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]courseModels.Quiz, 0, len(r.s.data.quizzes))
	for _, q := range r.s.data.quizzes {
		out = append(out, cloneQuiz(q))
	}
	return out, nil
}

func (r fileQuizzes) FindByID(ctx context.Context, id string) (*courseModels.Quiz, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, q := range r.s.data.quizzes {
		if q.ID == id {
			quiz := cloneQuiz(q)
			return &quiz, nil
		}
	}
	return nil, ErrNotFound
}

func (r fileQuizzes) Create(ctx context.Context, quiz *courseModels.Quiz) error {
	return r.s.write(r.held, func() error {
		for _, q := range r.s.data.quizzes {
			if q.ID == quiz.ID {
				return ErrDuplicate
			}
		}
		if quiz.CreatedAt.IsZero() {
			quiz.CreatedAt = time.Now()
		}
		r.s.data.quizzes = append(r.s.data.quizzes, cloneQuiz(*quiz))
		return nil
	}, quizzesFile)
}

func (r fileQuizzes) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.data.quizzes)), nil
}

func cloneQuiz(q courseModels.Quiz) courseModels.Quiz {
	questions := make([]courseModels.QuizQuestion, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		questions[i] = question
	}
	q.Questions = questions
	return q
}
