package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"photoshare/internal/domain/models"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/repository"
	"photoshare/internal/services/access"
	"photoshare/internal/storage"
	filestorage "photoshare/internal/storage/filestorage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrInvalidGalleryName = errors.New("gallery name must be at least 3 characters")
)

const (
	trendingLimit    = 20
	trendingCacheKey = "trending:anon"
	trendingCacheTTL = 5 * time.Minute
)

type GalleryService struct {
	log      *slog.Logger
	repo     repository.GalleryRepository
	files    filestorage.FileStorage
	policy   access.Policy
	trending *gocache.Cache
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, files filestorage.FileStorage) *GalleryService {
	return &GalleryService{
		log:      log,
		repo:     repo,
		files:    files,
		trending: gocache.New(trendingCacheTTL, 10*time.Minute),
	}
}

// UpdateInput — частичное обновление: nil-поля не трогаются.
type UpdateInput struct {
	Name        *string
	Public      *bool
	CategoryRef *string
}

func (s *GalleryService) CreateGallery(ctx context.Context, actor models.Actor, name string, public bool, categoryRef string) (models.Gallery, error) {
	const op = "services.gallery_service.CreateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", actor.ID.String()),
	)

	if actor.IsAnonymous() {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, access.ErrUnauthenticated)
	}

	name = models.NormalizeTitle(name)
	if len([]rune(name)) < 3 {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrInvalidGalleryName)
	}

	// Предварительная проверка имени; при гонке последнее слово
	// за индексом galleries_owner_name_key.
	exists, err := s.repo.NameExists(ctx, actor.ID, name, uuid.Nil)
	if err != nil {
		log.Error("failed to check gallery name", sl.Err(err))

		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		log.Warn("gallery name taken", slog.String("name", name))

		return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryExists)
	}

	gallery := models.Gallery{
		Name:   name,
		Slug:   slug.Make(name),
		UserID: actor.ID,
		Public: public,
	}

	if categoryRef != "" {
		code, err := resolveCategoryRef(categoryRef)
		if err != nil {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
		}
		gallery.CategoryCode = &code
	}

	id, err := s.repo.CreateGallery(ctx, gallery)
	if err != nil {
		if errors.Is(err, storage.ErrGalleryExists) {
			log.Warn("gallery name taken", slog.String("name", name))

			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryExists)
		}

		log.Error("failed to create gallery", sl.Err(err))

		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	s.trending.Flush()

	log.Info("gallery created", slog.String("gallery_id", id.String()))

	gallery.ID = id
	return gallery, nil
}

// GetGallery скрывает чужие приватные галереи как несуществующие.
func (s *GalleryService) GetGallery(ctx context.Context, actor models.Actor, id uuid.UUID) (models.Gallery, error) {
	const op = "services.gallery_service.GetGallery"

	gallery, err := s.repo.GetGalleryByID(ctx, id)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.policy.CanReadGallery(actor, gallery) {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return gallery, nil
}

func (s *GalleryService) UpdateGallery(ctx context.Context, actor models.Actor, id uuid.UUID, input UpdateInput) (models.Gallery, error) {
	const op = "services.gallery_service.UpdateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", id.String()),
	)

	gallery, err := s.GetGallery(ctx, actor, id)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if !s.policy.CanWriteGallery(actor, gallery) {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, access.ErrPermissionDenied)
	}

	if input.Name != nil {
		name := models.NormalizeTitle(*input.Name)
		if len([]rune(name)) < 3 {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrInvalidGalleryName)
		}

		exists, err := s.repo.NameExists(ctx, gallery.UserID, name, gallery.ID)
		if err != nil {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryExists)
		}

		gallery.Name = name
		gallery.Slug = slug.Make(name)
	}
	if input.Public != nil {
		gallery.Public = *input.Public
	}
	if input.CategoryRef != nil {
		if *input.CategoryRef == "" {
			gallery.CategoryCode = nil
		} else {
			code, err := resolveCategoryRef(*input.CategoryRef)
			if err != nil {
				return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
			}
			gallery.CategoryCode = &code
		}
	}

	if err := s.repo.UpdateGallery(ctx, gallery); err != nil {
		if errors.Is(err, storage.ErrGalleryExists) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryExists)
		}

		log.Error("failed to update gallery", sl.Err(err))

		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	s.trending.Flush()

	log.Info("gallery updated")

	return gallery, nil
}

// DeleteGallery удаляет галерею со всеми фото; файлы чистятся после
// фиксации, сбой очистки не откатывает удаление.
func (s *GalleryService) DeleteGallery(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	const op = "services.gallery_service.DeleteGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", id.String()),
	)

	gallery, err := s.GetGallery(ctx, actor, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !s.policy.CanWriteGallery(actor, gallery) {
		return fmt.Errorf("%s: %w", op, access.ErrPermissionDenied)
	}

	paths, err := s.repo.GalleryImagePaths(ctx, id)
	if err != nil {
		log.Warn("failed to collect image paths", sl.Err(err))
	}

	if err := s.repo.DeleteGallery(ctx, id); err != nil {
		log.Error("failed to delete gallery", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil {
			log.Warn("failed to remove file", slog.String("path", p), sl.Err(err))
		}
	}

	s.trending.Flush()

	log.Info("gallery deleted", slog.Int("files_removed", len(paths)))

	return nil
}

// ListGalleries отдает витрину по суммарным просмотрам. Для анонимных
// посетителей результат кэшируется, владельцы и персонал всегда читают БД.
func (s *GalleryService) ListGalleries(ctx context.Context, actor models.Actor) ([]models.GalleryListItem, error) {
	const op = "services.gallery_service.ListGalleries"

	if actor.IsAnonymous() {
		if cached, ok := s.trending.Get(trendingCacheKey); ok {
			return cached.([]models.GalleryListItem), nil
		}
	}

	items, err := s.repo.ListGalleries(ctx, actor.ID, actor.IsStaff, trendingLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if actor.IsAnonymous() {
		s.trending.Set(trendingCacheKey, items, gocache.DefaultExpiration)
	}

	return items, nil
}

// SearchGalleries ищет по имени галереи, имени владельца и slug категории.
func (s *GalleryService) SearchGalleries(ctx context.Context, actor models.Actor, query string, page, perPage int) ([]models.GalleryListItem, int, error) {
	const op = "services.gallery_service.SearchGalleries"

	query = models.NormalizeTitle(query)
	if page < 1 {
		page = 1
	}

	codes := models.CategoryCodesBySlugMatch(query)

	items, total, err := s.repo.SearchGalleries(ctx, actor.ID, actor.IsStaff, query, codes, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return items, total, nil
}

// RelatedGalleries подбирает публичные галереи той же категории.
func (s *GalleryService) RelatedGalleries(ctx context.Context, actor models.Actor, galleryID uuid.UUID, limit int) ([]models.GalleryListItem, error) {
	const op = "services.gallery_service.RelatedGalleries"

	gallery, err := s.GetGallery(ctx, actor, galleryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if gallery.CategoryCode == nil {
		return nil, nil
	}

	items, err := s.repo.RelatedGalleries(ctx, *gallery.CategoryCode, gallery.ID, actor.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s *GalleryService) TopCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	const op = "services.gallery_service.TopCategories"

	counts, err := s.repo.TopCategories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return counts, nil
}

// resolveCategoryRef принимает числовой код или имя категории.
// Числовая строка трактуется как код.
func resolveCategoryRef(ref string) (int, error) {
	if code, err := strconv.Atoi(ref); err == nil {
		if cat, ok := models.CategoryByCode(code); ok {
			return cat.Code, nil
		}
		return 0, storage.ErrCategoryNotFound
	}

	if cat, ok := models.CategoryByName(ref); ok {
		return cat.Code, nil
	}

	return 0, storage.ErrCategoryNotFound
}
