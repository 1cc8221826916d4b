package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/repository"
	"photoshare/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	log  *slog.Logger
	repo repository.UserRepository
}

func NewUserService(log *slog.Logger, repo repository.UserRepository) *UserService {
	return &UserService{log: log, repo: repo}
}

func (s *UserService) RegisterNewUser(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	const op = "services.user_service.RegisterNewUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	log.Info("register user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
	}

	id, err := s.repo.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist", sl.Err(err))

			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered")

	return id, nil
}

// Login принимает имя пользователя или email.
func (s *UserService) Login(ctx context.Context, identifier, password string) (models.User, error) {
	const op = "services.user_service.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("identifier", identifier),
	)

	log.Info("attempting to login user")

	user, err := s.repo.UserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("user logged in successfully")

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "services.user_service.GetUserByID"

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *UserService) IsStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "services.user_service.IsStaff"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	isStaff, err := s.repo.IsStaff(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("checked if user is staff", slog.Bool("is_staff", isStaff))

	return isStaff, nil
}
