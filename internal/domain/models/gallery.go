package models

import (
	"time"

	"github.com/google/uuid"
)

// Gallery представляет собой модель галереи
type Gallery struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Public       bool      `db:"public" json:"public"`
	CategoryCode *int      `db:"category_code" json:"category_code,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Category returns the catalog entry referenced by the gallery, if any.
func (g Gallery) Category() (Category, bool) {
	if g.CategoryCode == nil {
		return Category{}, false
	}
	return CategoryByCode(*g.CategoryCode)
}

// GalleryListItem — строка списка галерей с агрегатами по фотографиям.
type GalleryListItem struct {
	Gallery
	OwnerUsername string  `json:"owner_username"`
	PhotoCount    int     `json:"photo_count"`
	TotalViews    int64   `json:"total_views"`
	CoverPath     *string `json:"cover_path,omitempty"`
}
