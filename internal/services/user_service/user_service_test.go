package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) IsStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestUserService_RegisterNewUser(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("successful registration", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		expectedID := uuid.New()
		mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "alice" && u.Email == "alice@example.com" && len(u.PassHash) > 0
		})).Return(expectedID, nil).Once()

		id, err := service.RegisterNewUser(ctx, "alice", "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, expectedID, id)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		mockRepo.On("SaveUser", ctx, mock.Anything).
			Return(uuid.Nil, storage.ErrUserExists).Once()

		_, err := service.RegisterNewUser(ctx, "alice", "alice@example.com", "password123")
		assert.ErrorIs(t, err, ErrUserExist)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	testPassword := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	testUser := models.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		PassHash: hashedPassword,
	}

	t.Run("successful login by username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		mockRepo.On("UserByIdentifier", ctx, "alice").Return(testUser, nil).Once()
		mockRepo.On("TouchLastLogin", ctx, testUser.ID).Return(nil).Once()

		user, err := service.Login(ctx, "alice", testPassword)
		require.NoError(t, err)
		assert.Equal(t, testUser.ID, user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		mockRepo.On("UserByIdentifier", ctx, "alice").Return(testUser, nil).Once()

		_, err := service.Login(ctx, "alice", "wrong password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		mockRepo.On("UserByIdentifier", ctx, "ghost").
			Return(models.User{}, storage.ErrUserNotFound).Once()

		_, err := service.Login(ctx, "ghost", testPassword)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		dbErr := errors.New("connection lost")
		mockRepo.On("UserByIdentifier", ctx, "alice").
			Return(models.User{}, dbErr).Once()

		_, err := service.Login(ctx, "alice", testPassword)
		assert.ErrorIs(t, err, dbErr)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_IsStaff(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("staff user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		userID := uuid.New()
		mockRepo.On("IsStaff", ctx, userID).Return(true, nil).Once()

		isStaff, err := service.IsStaff(ctx, userID)
		require.NoError(t, err)
		assert.True(t, isStaff)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		userID := uuid.New()
		mockRepo.On("IsStaff", ctx, userID).Return(false, storage.ErrUserNotFound).Once()

		_, err := service.IsStaff(ctx, userID)
		assert.ErrorIs(t, err, ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	t.Run("unknown user is reported as not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo)

		userID := uuid.New()
		mockRepo.On("GetUserByID", ctx, userID).
			Return(models.User{}, storage.ErrUserNotFound).Once()

		_, err := service.GetUserByID(ctx, userID)
		assert.ErrorIs(t, err, ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})
}
