package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	courseModels "lms/models/course"
	"lms/repository"

	"gopkg.in/yaml.v3"
)

//go:embed seed/quizzes.yaml
var defaultQuizzes []byte

// LoadQuizSeed reads the quiz bank from path, or the built-in bank when path is empty
func LoadQuizSeed(path string) ([]courseModels.Quiz, error) {
	raw := defaultQuizzes
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read quiz seed: %w", err)
		}
	}

	var quizzes []courseModels.Quiz
	if err := yaml.Unmarshal(raw, &quizzes); err != nil {
		return nil, fmt.Errorf("parse quiz seed: %w", err)
	}
	return quizzes, nil
}

// SeedQuizzes fills an empty quiz bank. A bank that already holds quizzes is left alone.
func SeedQuizzes(ctx context.Context, store repository.Store, path string) error {
	count, err := store.Quizzes().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	quizzes, err := LoadQuizSeed(path)
	if err != nil {
		return err
	}

	return store.Transaction(ctx, func(tx repository.Store) error {
		for i := range quizzes {
			if quizzes[i].PassingScore == 0 {
				quizzes[i].PassingScore = 60
			}
			if err := tx.Quizzes().Create(ctx, &quizzes[i]); err != nil {
				return fmt.Errorf("seed quiz %s: %w", quizzes[i].ID, err)
			}
		}
		log.Printf("Seeded %d quizzes", len(quizzes))
		return nil
	})
}
