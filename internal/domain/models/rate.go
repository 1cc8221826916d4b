package models

import "github.com/google/uuid"

// Rate — реакция пользователя на фотографию.
// Пара (user_id, photo_id) уникальна: повторная оценка перезаписывает прежнюю.
type Rate struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	PhotoID uuid.UUID `db:"photo_id" json:"photo_id"`
	Liked   bool      `db:"liked" json:"liked"`
	Starred bool      `db:"starred" json:"starred"`
}

// RateSummary — агрегаты по фотографии плюс оценка самого зрителя,
// когда он аутентифицирован.
type RateSummary struct {
	Likes         int64 `json:"likes"`
	Stars         int64 `json:"stars"`
	ViewerLiked   bool  `json:"viewer_liked"`
	ViewerStarred bool  `json:"viewer_starred"`
}
