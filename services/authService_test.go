package services

import (
	"context"
	"errors"
	"testing"

	"lms/models"
	"lms/repository"
	"lms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	profile *utils.IdentityProfile
	err     error
	calls   int
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, username, password string) (*utils.IdentityProfile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func fakeToken(userID, name, role string) (string, error) {
	return "token-" + userID + "-" + role, nil
}

func TestLoginCreatesShadowUser(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		auth := &fakeAuthenticator{profile: &utils.IdentityProfile{ID: "42", Name: "Ana Souza", Username: "ana", Email: "ana@corp.com"}}
		svc := NewAuthService(store, auth, fakeToken, nil)
		ctx := context.Background()

		res, err := svc.Login(ctx, " ana ", "s3cret", LoginMeta{IP: "10.0.0.1", Device: "curl"})
		require.NoError(t, err)
		assert.Equal(t, "token-ana-student", res.AccessToken)
		assert.Equal(t, "ana", res.User.ID)
		assert.Equal(t, "Ana Souza", res.User.Name)
		assert.Equal(t, models.RoleStudent, res.User.Role)

		user, err := store.Users().FindByID(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, "ana@corp.com", user.Email)
		assert.False(t, user.LastLogin.IsZero())

		logins, err := store.Users().Logins(ctx, "ana")
		require.NoError(t, err)
		require.Len(t, logins, 1)
		assert.Equal(t, "10.0.0.1", logins[0].IPAddress)

		has, err := store.Permissions().Has(ctx, "ana", models.PermLearn)
		require.NoError(t, err)
		assert.True(t, has)
	})
}

func TestLoginKeepsLocalFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		ctx := context.Background()
		require.NoError(t, store.Users().Save(ctx, &models.User{ID: "ana", Name: "Old", XP: 70, Category: "Vendas", Title: "Mestre"}))

		auth := &fakeAuthenticator{profile: &utils.IdentityProfile{Name: "Ana Souza", Username: "ana"}}
		res, err := NewAuthService(store, auth, fakeToken, nil).Login(ctx, "ana", "pw", LoginMeta{})
		require.NoError(t, err)

		assert.Equal(t, 70, res.User.XP)
		assert.Equal(t, "Vendas", res.User.Category)
		assert.Equal(t, "Mestre", res.User.Title)
		assert.Equal(t, "Ana Souza", res.User.Name)
	})
}

func TestLoginAdminRole(t *testing.T) {
	ctx := context.Background()

	t.Run("allowlist", func(t *testing.T) {
		forEachStore(t, func(t *testing.T, store repository.Store) {
			auth := &fakeAuthenticator{profile: &utils.IdentityProfile{Username: "boss"}}
			svc := NewAuthService(store, auth, fakeToken, func(u string) bool { return u == "boss" })

			res, err := svc.Login(ctx, "boss", "pw", LoginMeta{})
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, res.User.Role)
			assert.Equal(t, "boss", res.User.Name)

			has, err := store.Permissions().Has(ctx, "boss", models.PermManageCourses)
			require.NoError(t, err)
			assert.True(t, has)
		})
	})

	t.Run("profile role", func(t *testing.T) {
		forEachStore(t, func(t *testing.T, store repository.Store) {
			auth := &fakeAuthenticator{profile: &utils.IdentityProfile{Username: "dev", Role: "admin"}}
			res, err := NewAuthService(store, auth, fakeToken, nil).Login(ctx, "dev", "pw", LoginMeta{})
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, res.User.Role)
		})
	})

	t.Run("demotion drops permissions", func(t *testing.T) {
		forEachStore(t, func(t *testing.T, store repository.Store) {
			require.NoError(t, store.Permissions().Grant(ctx, "ex", models.RoleAdmin, models.DefaultPermissions(models.RoleAdmin)))
			auth := &fakeAuthenticator{profile: &utils.IdentityProfile{Username: "ex"}}
			_, err := NewAuthService(store, auth, fakeToken, nil).Login(ctx, "ex", "pw", LoginMeta{})
			require.NoError(t, err)

			has, err := store.Permissions().Has(ctx, "ex", models.PermManageUsers)
			require.NoError(t, err)
			assert.False(t, has)
		})
	})
}

func TestLoginFailures(t *testing.T) {
	forEachStore(t, func(t *testing.T, store repository.Store) {
		auth := &fakeAuthenticator{err: errors.New("401")}
		svc := NewAuthService(store, auth, fakeToken, nil)
		ctx := context.Background()

		_, err := svc.Login(ctx, "ana", "wrong", LoginMeta{})
		assert.ErrorIs(t, err, ErrAuthFailed)

		_, err = svc.Login(ctx, "  ", "pw", LoginMeta{})
		assert.ErrorIs(t, err, ErrAuthFailed)
		assert.Equal(t, 1, auth.calls)

		users, err := store.Users().List(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}
