package repository

import (
	"context"
	"time"

	"photoshare/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByIdentifier(ctx context.Context, identifier string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	IsStaff(ctx context.Context, userID uuid.UUID) (bool, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type GalleryRepository interface {
	CreateGallery(ctx context.Context, gallery models.Gallery) (uuid.UUID, error)
	UpdateGallery(ctx context.Context, gallery models.Gallery) error
	DeleteGallery(ctx context.Context, id uuid.UUID) error
	GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	NameExists(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	ListGalleries(ctx context.Context, viewerID uuid.UUID, viewAll bool, limit int) ([]models.GalleryListItem, error)
	SearchGalleries(ctx context.Context, viewerID uuid.UUID, viewAll bool, query string, categoryCodes []int, page, perPage int) ([]models.GalleryListItem, int, error)
	RelatedGalleries(ctx context.Context, categoryCode int, excludeID, viewerID uuid.UUID, limit int) ([]models.GalleryListItem, error)
	TopCategories(ctx context.Context, limit int) ([]models.CategoryCount, error)
	GalleryImagePaths(ctx context.Context, galleryID uuid.UUID) ([]string, error)
	OwnerUsername(ctx context.Context, galleryID uuid.UUID) (string, error)
}

type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo models.Photo) (uuid.UUID, error)
	GetPhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error)
	TitleExists(ctx context.Context, galleryID uuid.UUID, title string, excludeID uuid.UUID) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (models.Photo, error)
	IncrementDownloads(ctx context.Context, id uuid.UUID) (models.Photo, error)
	ListGalleryPhotos(ctx context.Context, galleryID uuid.UUID, page, perPage int) ([]models.Photo, int, error)
	SetCover(ctx context.Context, photoID uuid.UUID) error
	DeletePhoto(ctx context.Context, id uuid.UUID) (imagePath string, galleryDeleted bool, err error)
}

type RateRepository interface {
	UpsertRate(ctx context.Context, rate models.Rate) error
	GetRateSummary(ctx context.Context, photoID uuid.UUID) (models.RateSummary, error)
	GetUserRate(ctx context.Context, userID, photoID uuid.UUID) (models.Rate, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
