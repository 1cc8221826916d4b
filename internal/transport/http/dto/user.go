package dto

import (
	"time"

	"photoshare/internal/domain/models"

	"github.com/google/uuid"
)

// UserRegisterInput содержит данные для регистрации пользователя
type UserRegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ImagePath string    `json:"image_path,omitempty"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ImagePath: user.ImagePath,
		IsStaff:   user.IsStaff,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}
