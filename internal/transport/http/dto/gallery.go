package dto

import (
	"time"

	"photoshare/internal/domain/models"

	"github.com/google/uuid"
)

type CreateGalleryRequest struct {
	Name string `json:"name" validate:"required,min=3,max=120"`
	// Публичность галереи, по умолчанию приватная.
	Public bool `json:"public"`
	// Код или имя категории из каталога.
	Category string `json:"category"`
}

// UpdateGalleryRequest — частичное обновление, nil-поля не меняются.
// Пустая строка в category снимает категорию.
type UpdateGalleryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=120"`
	Public   *bool   `json:"public"`
	Category *string `json:"category"`
}

type GalleryResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	UserID    uuid.UUID        `json:"user_id"`
	Public    bool             `json:"public"`
	Category  *models.Category `json:"category,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewGalleryResponse(g models.Gallery) GalleryResponse {
	resp := GalleryResponse{
		ID:        g.ID,
		Name:      g.Name,
		Slug:      g.Slug,
		UserID:    g.UserID,
		Public:    g.Public,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if cat, ok := g.Category(); ok {
		resp.Category = &cat
	}
	return resp
}

type GalleryListItemResponse struct {
	GalleryResponse
	OwnerUsername string  `json:"owner_username"`
	PhotoCount    int     `json:"photo_count"`
	TotalViews    int64   `json:"total_views"`
	CoverPath     *string `json:"cover_path,omitempty"`
}

func NewGalleryListResponse(items []models.GalleryListItem) []GalleryListItemResponse {
	out := make([]GalleryListItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, GalleryListItemResponse{
			GalleryResponse: NewGalleryResponse(item.Gallery),
			OwnerUsername:   item.OwnerUsername,
			PhotoCount:      item.PhotoCount,
			TotalViews:      item.TotalViews,
			CoverPath:       item.CoverPath,
		})
	}
	return out
}

type GalleryPageResponse struct {
	Items   []GalleryListItemResponse `json:"items"`
	Page    int                       `json:"page"`
	PerPage int                       `json:"per_page"`
	Total   int                       `json:"total"`
}
