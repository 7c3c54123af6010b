package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lms/models"
	"lms/repository"

	"github.com/google/uuid"
)

type UserInput struct {
	ID       string
	Name     string
	Email    string
	Avatar   string
	Role     string
	Title    string
	Category string
}

type UserService struct {
	store        repository.Store
	rankingLimit int
}

// NewUserService builds the service; rankingLimit is used when a caller does not ask for one
func NewUserService(store repository.Store, rankingLimit int) *UserService {
	return &UserService{store: store, rankingLimit: rankingLimit}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users().FindByID(ctx, id)
}

// Create registers a user by hand and grants the permissions of its role
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	role := in.Role
	if role != models.RoleAdmin {
		role = models.RoleStudent
	}

	user := &models.User{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Avatar:   in.Avatar,
		Role:     role,
		Title:    in.Title,
		Category: in.Category,
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, id); err == nil {
			return fmt.Errorf("user %s: %w", id, repository.ErrDuplicate)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		return tx.Permissions().Grant(ctx, user.ID, user.Role, models.DefaultPermissions(user.Role))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.store.Users().Delete(ctx, id)
}

// UpdateXP adds a signed amount to the user's xp
func (s *UserService) UpdateXP(ctx context.Context, id string, amount int) (*models.User, error) {
	return s.store.Users().AddXP(ctx, id, amount)
}

func (s *UserService) SetCategory(ctx context.Context, id, category string) (*models.User, error) {
	return s.store.Users().SetCategory(ctx, id, strings.TrimSpace(category))
}

// Ranking returns the leaderboard. A negative limit falls back to the
// configured one; zero returns every user.
func (s *UserService) Ranking(ctx context.Context, limit int) ([]models.User, error) {
	if limit < 0 {
		limit = s.rankingLimit
	}
	return s.store.Users().Ranking(ctx, limit)
}

func (s *UserService) Logins(ctx context.Context, id string) ([]models.LoginTracking, error) {
	if _, err := s.store.Users().FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Users().Logins(ctx, id)
}

func (s *UserService) HasPermission(ctx context.Context, id, permission string) (bool, error) {
	return s.store.Permissions().Has(ctx, id, permission)
}
