package repository

import (
	"context"
	"errors"
	"fmt"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

type PhotoRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPhotoRepo(db *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const photoColumns = "id, gallery_id, title, slug, image_path, is_cover, views, downloads, tags, created_at, updated_at"

// CreatePhoto вставляет фото и в той же транзакции назначает обложку.
// Вставка всегда идет с is_cover = FALSE, чтобы не упереться в частичный
// уникальный индекс photos_gallery_cover_key.
func (r *PhotoRepo) CreatePhoto(ctx context.Context, photo models.Photo) (uuid.UUID, error) {
	const op = "repository.photo_repository.CreatePhoto"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query, args, err := r.sb.Insert("photos").
		Columns("gallery_id", "title", "slug", "image_path", "is_cover", "tags").
		Values(photo.GalleryID, photo.Title, photo.Slug, photo.ImagePath, false, pq.Array(photo.Tags)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, translateConstraint(err))
	}

	var count int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM photos WHERE gallery_id = $1", photo.GalleryID).Scan(&count)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	// Первое фото галереи всегда становится обложкой.
	if photo.IsCover || count == 1 {
		if err := promoteCover(ctx, tx, photo.GalleryID, id); err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// promoteCover сбрасывает текущую обложку галереи и ставит новую. Порядок
// важен из-за частичного уникального индекса по (gallery_id) WHERE is_cover.
func promoteCover(ctx context.Context, tx pgx.Tx, galleryID, photoID uuid.UUID) error {
	_, err := tx.Exec(ctx, "UPDATE photos SET is_cover = FALSE WHERE gallery_id = $1 AND is_cover", galleryID)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "UPDATE photos SET is_cover = TRUE WHERE id = $1", photoID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrPhotoNotFound
	}

	return nil
}

func (r *PhotoRepo) GetPhotoByID(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.photo_repository.GetPhotoByID"

	query := fmt.Sprintf("SELECT %s FROM photos WHERE id = $1", photoColumns)

	photo, err := r.scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return photo, nil
}

func (r *PhotoRepo) TitleExists(ctx context.Context, galleryID uuid.UUID, title string, excludeID uuid.UUID) (bool, error) {
	const op = "repository.photo_repository.TitleExists"

	qb := r.sb.Select("1").
		From("photos").
		Where(sq.Eq{"gallery_id": galleryID}).
		Where(sq.Expr("lower(title) = lower(?)", title))
	if excludeID != uuid.Nil {
		qb = qb.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := qb.Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// IncrementViews атомарно увеличивает счетчик просмотров и возвращает
// актуальную строку, без гонки read-modify-write.
func (r *PhotoRepo) IncrementViews(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.photo_repository.IncrementViews"

	query := fmt.Sprintf("UPDATE photos SET views = views + 1 WHERE id = $1 RETURNING %s", photoColumns)

	photo, err := r.scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return photo, nil
}

func (r *PhotoRepo) IncrementDownloads(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.photo_repository.IncrementDownloads"

	query := fmt.Sprintf("UPDATE photos SET downloads = downloads + 1 WHERE id = $1 RETURNING %s", photoColumns)

	photo, err := r.scanPhoto(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return photo, nil
}

func (r *PhotoRepo) ListGalleryPhotos(ctx context.Context, galleryID uuid.UUID, page, perPage int) ([]models.Photo, int, error) {
	const op = "repository.photo_repository.ListGalleryPhotos"

	query, args, err := r.sb.Select(
		"id", "gallery_id", "title", "slug", "image_path", "is_cover", "views", "downloads", "tags", "created_at", "updated_at",
	).
		From("photos").
		Where(sq.Eq{"gallery_id": galleryID}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		photo, err := r.scanPhoto(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM photos WHERE gallery_id = $1", galleryID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return photos, total, nil
}

func (r *PhotoRepo) SetCover(ctx context.Context, photoID uuid.UUID) error {
	const op = "repository.photo_repository.SetCover"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var galleryID uuid.UUID
	err = tx.QueryRow(ctx, "SELECT gallery_id FROM photos WHERE id = $1", photoID).Scan(&galleryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := promoteCover(ctx, tx, galleryID, photoID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeletePhoto удаляет фото и, если оно было последним, саму галерею в
// одной транзакции. Возвращает путь файла для очистки хранилища.
func (r *PhotoRepo) DeletePhoto(ctx context.Context, id uuid.UUID) (string, bool, error) {
	const op = "repository.photo_repository.DeletePhoto"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var (
		galleryID uuid.UUID
		imagePath string
		wasCover  bool
	)
	err = tx.QueryRow(ctx,
		"DELETE FROM photos WHERE id = $1 RETURNING gallery_id, image_path, is_cover", id,
	).Scan(&galleryID, &imagePath, &wasCover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	var remaining int
	err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM photos WHERE gallery_id = $1", galleryID).Scan(&remaining)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	galleryDeleted := false
	switch {
	case remaining == 0:
		if _, err := tx.Exec(ctx, "DELETE FROM galleries WHERE id = $1", galleryID); err != nil {
			return "", false, fmt.Errorf("%s: %w", op, err)
		}
		galleryDeleted = true
	case wasCover:
		// Галерея не должна остаться без обложки.
		_, err := tx.Exec(ctx, `
			UPDATE photos SET is_cover = TRUE WHERE id = (
				SELECT id FROM photos WHERE gallery_id = $1 ORDER BY created_at, id LIMIT 1
			)`, galleryID)
		if err != nil {
			return "", false, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return imagePath, galleryDeleted, nil
}

func (r *PhotoRepo) scanPhoto(row pgx.Row) (models.Photo, error) {
	var photo models.Photo
	err := row.Scan(
		&photo.ID,
		&photo.GalleryID,
		&photo.Title,
		&photo.Slug,
		&photo.ImagePath,
		&photo.IsCover,
		&photo.Views,
		&photo.Downloads,
		pq.Array(&photo.Tags),
		&photo.CreatedAt,
		&photo.UpdatedAt,
	)
	if err != nil {
		return models.Photo{}, err
	}

	return photo, nil
}
