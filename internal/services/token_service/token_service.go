package services

import (
	"context"
	"errors"
	"time"

	"photoshare/internal/domain/models"
	libjwt "photoshare/internal/lib/jwt"
	"photoshare/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
	ErrTokenNotInStorage  = errors.New("token not found in storage")
)

type TokenService struct {
	repo       repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	accessToken, err := libjwt.NewToken(user, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := libjwt.NewToken(user, s.secret, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	err = s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens делает ротацию: старый refresh удаляется из хранилища,
// выдается новая пара.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}

	userID, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenNotInStorage
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidTokenClaims
	}

	user := models.User{ID: id}
	if username, ok := claims["username"].(string); ok {
		user.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if staff, ok := claims["staff"].(bool); ok {
		user.IsStaff = staff
	}

	return s.GenerateTokens(ctx, user)
}

// Logout отзывает все refresh-токены пользователя.
func (s *TokenService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteAllUserTokens(ctx, userID.String())
}
