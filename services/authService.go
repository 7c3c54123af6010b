package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lms/models"
	"lms/repository"
	"lms/utils"
)

// Authenticator verifies credentials against the identity provider
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*utils.IdentityProfile, error)
}

// TokenIssuer mints the local access token for a user
type TokenIssuer func(userID, name, role string) (string, error)

// LoginUser mirrors the identity provider's profile, extended with local fields
type LoginUser struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Username string `json:"usuario"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	XP       int    `json:"xp"`
	Role     string `json:"role"`
	Category string `json:"category,omitempty"`
	Title    string `json:"title,omitempty"`
}

type LoginResult struct {
	AccessToken string    `json:"access_token"`
	User        LoginUser `json:"user"`
}

// LoginMeta describes where a login came from
type LoginMeta struct {
	IP     string
	Device string
}

type AuthService struct {
	store   repository.Store
	auth    Authenticator
	issue   TokenIssuer
	isAdmin func(username string) bool
}

// NewAuthService wires the relay; isAdmin may be nil
func NewAuthService(store repository.Store, auth Authenticator, issue TokenIssuer, isAdmin func(string) bool) *AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthService{store: store, auth: auth, issue: issue, isAdmin: isAdmin}
}

// Login checks the credentials with the identity provider and keeps a local
// shadow record of the user keyed by username.
func (s *AuthService) Login(ctx context.Context, username, password string, meta LoginMeta) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrAuthFailed
	}

	profile, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	role := models.RoleStudent
	if profile.Role == models.RoleAdmin || s.isAdmin(username) {
		role = models.RoleAdmin
	}

	var user *models.User
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Users().FindByID(ctx, username)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			user = &models.User{ID: username}
		case err != nil:
			return err
		default:
			user = existing
		}

		user.Name = profile.Name
		if user.Name == "" {
			user.Name = username
		}
		user.Email = profile.Email
		user.Avatar = profile.Avatar
		user.Role = role
		user.LastLogin = time.Now()

		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		if err := tx.Permissions().Grant(ctx, user.ID, role, models.DefaultPermissions(role)); err != nil {
			return err
		}
		return tx.Users().RecordLogin(ctx, &models.LoginTracking{
			UserID:    user.ID,
			IPAddress: meta.IP,
			Device:    meta.Device,
			Timestamp: user.LastLogin,
		})
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issue(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	log.Printf("[AUTH] %s logged in as %s", username, role)
	return &LoginResult{
		AccessToken: token,
		User: LoginUser{
			ID:       user.ID,
			Name:     user.Name,
			Username: username,
			Email:    user.Email,
			Avatar:   user.Avatar,
			XP:       user.XP,
			Role:     user.Role,
			Category: user.Category,
			Title:    user.Title,
		},
	}, nil
}
