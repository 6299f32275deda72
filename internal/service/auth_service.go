package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/vk"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenVerifier checks a client-supplied VK access token server-side.
// Nil when no service key is configured; verification is then skipped.
type TokenVerifier interface {
	CheckToken(ctx context.Context, token string) (*vk.CheckTokenResult, error)
}

// AuthService exchanges VK credentials for local sessions and issues
// JWT token pairs.
type AuthService struct {
	users    UserStore
	rdb      *redis.Client
	verifier TokenVerifier
	cfg      *config.Config
	logger   *zap.Logger
}

func NewAuthService(users UserStore, rdb *redis.Client, verifier TokenVerifier, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, rdb: rdb, verifier: verifier, cfg: cfg, logger: logger}
}

// TokenPair is an issued access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// VKUser is the profile payload the client obtained from VK.
type VKUser struct {
	ID        int64  `json:"id" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
	Email     string `json:"email"`
}

// LoginVK verifies the VK token (when a service key is configured),
// creates or refreshes the local user record and issues a token pair.
func (s *AuthService) LoginVK(ctx context.Context, vkUser VKUser, vkToken string) (*entity.User, *TokenPair, error) {
	if vkUser.ID <= 0 || vkToken == "" {
		return nil, nil, fmt.Errorf("%w: vk user and token are required", ErrValidation)
	}

	if s.verifier != nil {
		check, err := s.verifier.CheckToken(ctx, vkToken)
		if err != nil {
			return nil, nil, fmt.Errorf("verify vk token: %w", err)
		}
		if check.UserID != vkUser.ID {
			return nil, nil, fmt.Errorf("%w: vk token does not belong to user %d", ErrValidation, vkUser.ID)
		}
	}

	user, err := s.createOrUpdateUser(ctx, vkUser)
	if err != nil {
		return nil, nil, fmt.Errorf("create or update user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("vk login", zap.String("user_id", user.ID), zap.Int64("vk_id", user.VKID))
	return user, pair, nil
}

func (s *AuthService) createOrUpdateUser(ctx context.Context, vkUser VKUser) (*entity.User, error) {
	user, err := s.users.FindByVKID(ctx, vkUser.ID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	displayName := strings.TrimSpace(vkUser.FirstName + " " + vkUser.LastName)

	if user == nil {
		email := vkUser.Email
		if email == "" {
			email = fmt.Sprintf("vk_%d@vk.local", vkUser.ID)
		}
		user = &entity.User{
			ID:          fmt.Sprintf("vk_%d", vkUser.ID),
			Email:       email,
			DisplayName: displayName,
			Role:        entity.RoleAdmin,
			VKID:        vkUser.ID,
			AvatarURL:   vkUser.PhotoURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	// Refresh the mutable profile fields; role assignments survive.
	if displayName != "" {
		user.DisplayName = displayName
	}
	if vkUser.Email != "" {
		user.Email = vkUser.Email
	}
	if vkUser.PhotoURL != "" {
		user.AvatarURL = vkUser.PhotoURL
	}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.DisplayName,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":   uuid.New().String(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJTI := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub":  user.ID,
		"type": "refresh",
		"iss":  s.cfg.JWT.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
		"jti":  refreshJTI,
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.rdb.Set(ctx, "token:refresh:"+refreshJTI, user.ID, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}

// RefreshToken rotates a refresh token: the presented token must be
// valid, of refresh type and still registered in redis; the old one is
// revoked before a new pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*entity.User, *TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, nil, fmt.Errorf("invalid token claims")
	}
	if claims["type"] != "refresh" {
		return nil, nil, fmt.Errorf("invalid token type")
	}

	jti, _ := claims["jti"].(string)
	userID, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("refresh token expired or revoked")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("user not found")
	}

	s.rdb.Del(ctx, "token:refresh:"+jti)

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}
