package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/vk"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	userID int64
	err    error
}

func (f *fakeVerifier) CheckToken(ctx context.Context, token string) (*vk.CheckTokenResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &vk.CheckTokenResult{Success: 1, UserID: f.userID}, nil
}

func newTestAuthService(t *testing.T, users *fakeUserStore, verifier TokenVerifier) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 168 * time.Hour
	cfg.JWT.Issuer = "stockwise"

	return NewAuthService(users, rdb, verifier, cfg, zap.NewNop())
}

func TestLoginVKCreatesUser(t *testing.T) {
	users := &fakeUserStore{}
	svc := newTestAuthService(t, users, nil)

	user, pair, err := svc.LoginVK(context.Background(), VKUser{
		ID:        100,
		FirstName: "Ivan",
		LastName:  "Petrov",
		PhotoURL:  "https://vk.com/photo.jpg",
	}, "vk-token")
	require.NoError(t, err)

	assert.Equal(t, "vk_100", user.ID)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, "Ivan Petrov", user.DisplayName)
	assert.Equal(t, "vk_100@vk.local", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(7200), pair.ExpiresIn)
	require.Len(t, users.users, 1)
}

func TestLoginVKUpdatesExistingUserKeepsRole(t *testing.T) {
	users := &fakeUserStore{users: []entity.User{{
		ID:          "vk_100",
		VKID:        100,
		Email:       "old@example.com",
		DisplayName: "Old Name",
		Role:        entity.RoleSuperAdmin,
	}}}
	svc := newTestAuthService(t, users, nil)

	user, _, err := svc.LoginVK(context.Background(), VKUser{
		ID:        100,
		FirstName: "New",
		LastName:  "Name",
		Email:     "new@example.com",
	}, "vk-token")
	require.NoError(t, err)

	assert.Equal(t, "New Name", user.DisplayName)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, entity.RoleSuperAdmin, user.Role)
	require.Len(t, users.users, 1)
}

func TestLoginVKVerifierMismatchRejected(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserStore{}, &fakeVerifier{userID: 999})

	_, _, err := svc.LoginVK(context.Background(), VKUser{ID: 100}, "vk-token")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginVKVerifierErrorPropagates(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserStore{}, &fakeVerifier{err: errors.New("vk down")})

	_, _, err := svc.LoginVK(context.Background(), VKUser{ID: 100}, "vk-token")
	assert.Error(t, err)
}

func TestLoginVKMissingInput(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserStore{}, nil)

	_, _, err := svc.LoginVK(context.Background(), VKUser{}, "vk-token")
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.LoginVK(context.Background(), VKUser{ID: 100}, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefreshTokenRotates(t *testing.T) {
	users := &fakeUserStore{}
	svc := newTestAuthService(t, users, nil)

	_, pair, err := svc.LoginVK(context.Background(), VKUser{ID: 100, FirstName: "Ivan"}, "vk-token")
	require.NoError(t, err)

	user, next, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "vk_100", user.ID)
	assert.NotEmpty(t, next.AccessToken)

	// The spent refresh token is revoked.
	_, _, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestAuthService(t, &fakeUserStore{}, nil)

	_, pair, err := svc.LoginVK(context.Background(), VKUser{ID: 100}, "vk-token")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.Error(t, err)
}
