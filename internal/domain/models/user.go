package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	PassHash  []byte    `db:"pass_hash" json:"-"`
	ImagePath string    `db:"image_path" json:"image_path,omitempty"`
	IsStaff   bool      `db:"is_staff" json:"is_staff"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	LastLogin time.Time `db:"last_login,omitempty" json:"last_login,omitempty"`
}
