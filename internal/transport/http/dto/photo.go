package dto

import (
	"time"

	"photoshare/internal/domain/models"

	"github.com/google/uuid"
)

type PhotoResponse struct {
	ID            uuid.UUID `json:"id"`
	GalleryID     uuid.UUID `json:"gallery_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	ImagePath     string    `json:"image_path"`
	IsCover       bool      `json:"is_cover"`
	Views         int64     `json:"views"`
	Downloads     int64     `json:"downloads"`
	Tags          []string  `json:"tags,omitempty"`
	Likes         int64     `json:"likes"`
	Stars         int64     `json:"stars"`
	ViewerLiked   bool      `json:"viewer_liked"`
	ViewerStarred bool      `json:"viewer_starred"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewPhotoResponse(p models.Photo, summary models.RateSummary) PhotoResponse {
	return PhotoResponse{
		ID:            p.ID,
		GalleryID:     p.GalleryID,
		Title:         p.Title,
		Slug:          p.Slug,
		ImagePath:     p.ImagePath,
		IsCover:       p.IsCover,
		Views:         p.Views,
		Downloads:     p.Downloads,
		Tags:          p.Tags,
		Likes:         summary.Likes,
		Stars:         summary.Stars,
		ViewerLiked:   summary.ViewerLiked,
		ViewerStarred: summary.ViewerStarred,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type PhotoPageResponse struct {
	Items   []PhotoResponse `json:"items"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Total   int             `json:"total"`
}

type RateRequest struct {
	Liked   bool `json:"liked"`
	Starred bool `json:"starred"`
}
