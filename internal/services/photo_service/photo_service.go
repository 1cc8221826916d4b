package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/imaging"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/metrics"
	"photoshare/internal/repository"
	"photoshare/internal/services/access"
	"photoshare/internal/storage"
	filestorage "photoshare/internal/storage/filestorage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrInvalidPhotoTitle = errors.New("photo title must be at least 3 characters")
	ErrMissingImage      = errors.New("image file is required")
)

// appName попадает в имя файла при скачивании.
const appName = "Photoshare"

const (
	thumbWidth  = 400
	thumbHeight = 300
)

type PhotoService struct {
	log       *slog.Logger
	photos    repository.PhotoRepository
	galleries repository.GalleryRepository
	rates     repository.RateRepository
	files     filestorage.FileStorage
	policy    access.Policy
}

func NewPhotoService(
	log *slog.Logger,
	photos repository.PhotoRepository,
	galleries repository.GalleryRepository,
	rates repository.RateRepository,
	files filestorage.FileStorage,
) *PhotoService {
	return &PhotoService{
		log:       log,
		photos:    photos,
		galleries: galleries,
		rates:     rates,
		files:     files,
	}
}

// AddPhoto сохраняет файл, приводит его к размеру витрины и создает
// запись. Первое фото галереи становится обложкой автоматически.
func (s *PhotoService) AddPhoto(ctx context.Context, actor models.Actor, galleryID uuid.UUID, title string, file *multipart.FileHeader, tags []string, asCover bool) (models.Photo, error) {
	const op = "services.photo_service.AddPhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", galleryID.String()),
	)

	gallery, err := s.writableGallery(ctx, actor, galleryID)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	title = models.NormalizeTitle(title)
	if len([]rune(title)) < 3 {
		return models.Photo{}, fmt.Errorf("%s: %w", op, ErrInvalidPhotoTitle)
	}
	if file == nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, ErrMissingImage)
	}

	// Проверка до записи файла; при гонке последнее слово
	// за индексом photos_gallery_title_key.
	taken, err := s.photos.TitleExists(ctx, gallery.ID, title, uuid.Nil)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoTitleTaken)
	}

	subPath := filepath.Join("photos", gallery.ID.String())
	relPath, size, err := s.files.Save(ctx, file, subPath)
	if err != nil {
		log.Error("failed to save file", sl.Err(err))

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	// Приведение к размеру витрины не критично, оригинал остается рабочим.
	if err := imaging.ResizeToFit(s.files.GetFullPath(relPath), thumbWidth, thumbHeight); err != nil {
		log.Warn("failed to resize image", sl.Err(err))
	}

	photo := models.Photo{
		GalleryID: gallery.ID,
		Title:     title,
		Slug:      slug.Make(title),
		ImagePath: relPath,
		IsCover:   asCover,
		Tags:      tags,
	}

	id, err := s.photos.CreatePhoto(ctx, photo)
	if err != nil {
		if delErr := s.files.Delete(ctx, relPath); delErr != nil {
			log.Warn("failed to remove orphan file", slog.String("path", relPath), sl.Err(delErr))
		}

		if errors.Is(err, storage.ErrPhotoTitleTaken) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoTitleTaken)
		}

		log.Error("failed to create photo", sl.Err(err))

		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PhotoUploadsTotal.Inc()

	log.Info("photo uploaded",
		slog.String("photo_id", id.String()),
		slog.Int64("size_bytes", size),
	)

	return s.photos.GetPhotoByID(ctx, id)
}

// GetPhoto отдает фото с атомарным инкрементом просмотров и сводкой оценок.
func (s *PhotoService) GetPhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Photo, models.RateSummary, error) {
	const op = "services.photo_service.GetPhoto"

	if _, err := s.visiblePhoto(ctx, actor, id); err != nil {
		return models.Photo{}, models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	photo, err := s.photos.IncrementViews(ctx, id)
	if err != nil {
		return models.Photo{}, models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PhotoViewsTotal.Inc()

	summary, err := s.rates.GetRateSummary(ctx, id)
	if err != nil {
		return models.Photo{}, models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	if !actor.IsAnonymous() {
		rate, err := s.rates.GetUserRate(ctx, actor.ID, id)
		if err != nil {
			return models.Photo{}, models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
		}
		summary.ViewerLiked = rate.Liked
		summary.ViewerStarred = rate.Starred
	}

	return photo, summary, nil
}

// DownloadPhoto возвращает фото, абсолютный путь файла и имя вложения
// вида Photoshare_<title>_by_<owner>.jpg. Счетчик скачиваний растет атомарно.
func (s *PhotoService) DownloadPhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Photo, string, string, error) {
	const op = "services.photo_service.DownloadPhoto"

	if _, err := s.visiblePhoto(ctx, actor, id); err != nil {
		return models.Photo{}, "", "", fmt.Errorf("%s: %w", op, err)
	}

	photo, err := s.photos.IncrementDownloads(ctx, id)
	if err != nil {
		return models.Photo{}, "", "", fmt.Errorf("%s: %w", op, err)
	}

	owner, err := s.galleries.OwnerUsername(ctx, photo.GalleryID)
	if err != nil {
		return models.Photo{}, "", "", fmt.Errorf("%s: %w", op, err)
	}

	return photo, s.files.GetFullPath(photo.ImagePath), photo.DownloadFilename(appName, owner), nil
}

func (s *PhotoService) ListGalleryPhotos(ctx context.Context, actor models.Actor, galleryID uuid.UUID, page, perPage int) ([]models.Photo, int, error) {
	const op = "services.photo_service.ListGalleryPhotos"

	gallery, err := s.galleries.GetGalleryByID(ctx, galleryID)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if !s.policy.CanReadGallery(actor, gallery) {
		return nil, 0, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	if page < 1 {
		page = 1
	}

	photos, total, err := s.photos.ListGalleryPhotos(ctx, galleryID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return photos, total, nil
}

// DeletePhoto убирает фото, последнее фото утягивает за собой галерею.
// Возвращает признак того, что галерея была удалена.
func (s *PhotoService) DeletePhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (bool, error) {
	const op = "services.photo_service.DeletePhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("photo_id", id.String()),
	)

	photo, err := s.visiblePhoto(ctx, actor, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.requireWrite(ctx, actor, photo.GalleryID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	imagePath, galleryDeleted, err := s.photos.DeletePhoto(ctx, id)
	if err != nil {
		log.Error("failed to delete photo", sl.Err(err))

		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.files.Delete(ctx, imagePath); err != nil {
		log.Warn("failed to remove file", slog.String("path", imagePath), sl.Err(err))
	}

	log.Info("photo deleted", slog.Bool("gallery_deleted", galleryDeleted))

	return galleryDeleted, nil
}

func (s *PhotoService) SetCover(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	const op = "services.photo_service.SetCover"

	photo, err := s.visiblePhoto(ctx, actor, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.requireWrite(ctx, actor, photo.GalleryID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.photos.SetCover(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RatePhoto перезаписывает оценку актора, дубликатов не бывает.
func (s *PhotoService) RatePhoto(ctx context.Context, actor models.Actor, photoID uuid.UUID, liked, starred bool) (models.RateSummary, error) {
	const op = "services.photo_service.RatePhoto"

	if actor.IsAnonymous() {
		return models.RateSummary{}, fmt.Errorf("%s: %w", op, access.ErrUnauthenticated)
	}

	if _, err := s.visiblePhoto(ctx, actor, photoID); err != nil {
		return models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	rate := models.Rate{
		UserID:  actor.ID,
		PhotoID: photoID,
		Liked:   liked,
		Starred: starred,
	}

	if err := s.rates.UpsertRate(ctx, rate); err != nil {
		return models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	summary, err := s.rates.GetRateSummary(ctx, photoID)
	if err != nil {
		return models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	summary.ViewerLiked = liked
	summary.ViewerStarred = starred

	return summary, nil
}

// visiblePhoto скрывает фото из чужих приватных галерей как несуществующие.
func (s *PhotoService) visiblePhoto(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Photo, error) {
	photo, err := s.photos.GetPhotoByID(ctx, id)
	if err != nil {
		return models.Photo{}, err
	}

	gallery, err := s.galleries.GetGalleryByID(ctx, photo.GalleryID)
	if err != nil {
		return models.Photo{}, err
	}

	if !s.policy.CanReadPhoto(actor, gallery) {
		return models.Photo{}, storage.ErrPhotoNotFound
	}

	return photo, nil
}

func (s *PhotoService) writableGallery(ctx context.Context, actor models.Actor, galleryID uuid.UUID) (models.Gallery, error) {
	gallery, err := s.galleries.GetGalleryByID(ctx, galleryID)
	if err != nil {
		return models.Gallery{}, err
	}

	if !s.policy.CanReadGallery(actor, gallery) {
		return models.Gallery{}, storage.ErrGalleryNotFound
	}
	if actor.IsAnonymous() {
		return models.Gallery{}, access.ErrUnauthenticated
	}
	if !s.policy.CanWriteGallery(actor, gallery) {
		return models.Gallery{}, access.ErrPermissionDenied
	}

	return gallery, nil
}

func (s *PhotoService) requireWrite(ctx context.Context, actor models.Actor, galleryID uuid.UUID) error {
	_, err := s.writableGallery(ctx, actor, galleryID)
	return err
}
