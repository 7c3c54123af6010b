package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	courseModels "lms/models/course"
	"lms/repository"
)

// quiz ids created at runtime start above the seeded q1..q16
const quizIDOffset = 100

type QuestionInput struct {
	Text               string
	Options            []string
	CorrectOptionIndex int
}

type QuizService struct {
	store repository.Store
}

func NewQuizService(store repository.Store) *QuizService {
	return &QuizService{store: store}
}

func (s *QuizService) List(ctx context.Context) ([]courseModels.Quiz, error) {
	return s.store.Quizzes().List(ctx)
}

func (s *QuizService) Get(ctx context.Context, id string) (*courseModels.Quiz, error) {
	return s.store.Quizzes().FindByID(ctx, id)
}

// Create adds a quiz to the bank. Question ids are their 1-based positions.
func (s *QuizService) Create(ctx context.Context, title string, questions []QuestionInput) (*courseModels.Quiz, error) {
	quiz := &courseModels.Quiz{
		Title:        title,
		PassingScore: 60,
		Questions:    make([]courseModels.QuizQuestion, 0, len(questions)),
	}
	for i, q := range questions {
		quiz.Questions = append(quiz.Questions, courseModels.QuizQuestion{
			ID:                 strconv.Itoa(i + 1),
			Text:               q.Text,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
		})
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		count, err := tx.Quizzes().Count(ctx)
		if err != nil {
			return err
		}
		// a hand-picked id may already sit on the next slot
		for n := count + quizIDOffset; ; n++ {
			quiz.ID = fmt.Sprintf("q%d", n)
			_, err := tx.Quizzes().FindByID(ctx, quiz.ID)
			if errors.Is(err, repository.ErrNotFound) {
				return tx.Quizzes().Create(ctx, quiz)
			}
			if err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}
