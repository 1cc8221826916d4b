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

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *GalleryRepo) CreateGallery(ctx context.Context, gallery models.Gallery) (uuid.UUID, error) {
	const op = "repository.gallery_repository.CreateGallery"

	query, args, err := r.sb.Insert("galleries").
		Columns("name", "slug", "user_id", "public", "category_code").
		Values(gallery.Name, gallery.Slug, gallery.UserID, gallery.Public, gallery.CategoryCode).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, translateConstraint(err))
	}

	return id, nil
}

func (r *GalleryRepo) UpdateGallery(ctx context.Context, gallery models.Gallery) error {
	const op = "repository.gallery_repository.UpdateGallery"

	query, args, err := r.sb.Update("galleries").
		Set("name", gallery.Name).
		Set("slug", gallery.Slug).
		Set("public", gallery.Public).
		Set("category_code", gallery.CategoryCode).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": gallery.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateConstraint(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return nil
}

// DeleteGallery удаляет галерею вместе с фотографиями (ON DELETE CASCADE).
func (r *GalleryRepo) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "repository.gallery_repository.DeleteGallery"

	query, args, err := r.sb.Delete("galleries").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return nil
}

func (r *GalleryRepo) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "repository.gallery_repository.GetGalleryByID"

	query, args, err := r.sb.Select(
		"id", "name", "slug", "user_id", "public", "category_code", "created_at", "updated_at",
	).
		From("galleries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var g models.Gallery
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&g.ID,
		&g.Name,
		&g.Slug,
		&g.UserID,
		&g.Public,
		&g.CategoryCode,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

func (r *GalleryRepo) NameExists(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	const op = "repository.gallery_repository.NameExists"

	qb := r.sb.Select("1").
		From("galleries").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Expr("lower(name) = lower(?)", name))
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

// listColumns собирает сводку по галерее: владелец, количество фото,
// суммарные просмотры и обложка.
func (r *GalleryRepo) listQuery() sq.SelectBuilder {
	return r.sb.Select(
		"g.id",
		"g.name",
		"g.slug",
		"g.user_id",
		"g.public",
		"g.category_code",
		"g.created_at",
		"g.updated_at",
		"u.username",
		"COUNT(p.id) AS photo_count",
		"COALESCE(SUM(p.views), 0) AS total_views",
		"(SELECT image_path FROM photos c WHERE c.gallery_id = g.id AND c.is_cover LIMIT 1) AS cover_path",
	).
		From("galleries g").
		Join("users u ON u.id = g.user_id").
		LeftJoin("photos p ON p.gallery_id = g.id").
		GroupBy("g.id", "u.username")
}

func visibilityFilter(qb sq.SelectBuilder, viewerID uuid.UUID, viewAll bool) sq.SelectBuilder {
	switch {
	case viewAll:
		return qb
	case viewerID == uuid.Nil:
		return qb.Where(sq.Eq{"g.public": true})
	default:
		return qb.Where(sq.Or{
			sq.Eq{"g.public": true},
			sq.Eq{"g.user_id": viewerID},
		})
	}
}

func (r *GalleryRepo) ListGalleries(ctx context.Context, viewerID uuid.UUID, viewAll bool, limit int) ([]models.GalleryListItem, error) {
	const op = "repository.gallery_repository.ListGalleries"

	qb := visibilityFilter(r.listQuery(), viewerID, viewAll).
		OrderBy("total_views DESC", "g.created_at DESC").
		Limit(uint64(limit))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	items, err := r.scanListItems(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *GalleryRepo) SearchGalleries(ctx context.Context, viewerID uuid.UUID, viewAll bool, query string, categoryCodes []int, page, perPage int) ([]models.GalleryListItem, int, error) {
	const op = "repository.gallery_repository.SearchGalleries"

	pattern := "%" + query + "%"
	match := sq.Or{
		sq.Expr("g.name ILIKE ?", pattern),
		sq.Expr("u.username ILIKE ?", pattern),
	}
	if len(categoryCodes) > 0 {
		match = append(match, sq.Expr("g.category_code = ANY(?)", pq.Array(categoryCodes)))
	}

	qb := visibilityFilter(r.listQuery(), viewerID, viewAll).
		Where(match).
		OrderBy("total_views DESC", "g.created_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage))

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	items, err := r.scanListItems(ctx, sqlStr, args)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	total, err := r.searchTotal(ctx, viewerID, viewAll, match)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return items, total, nil
}

func (r *GalleryRepo) searchTotal(ctx context.Context, viewerID uuid.UUID, viewAll bool, match sq.Sqlizer) (int, error) {
	qb := r.sb.Select("COUNT(*)").
		From("galleries g").
		Join("users u ON u.id = g.user_id").
		Where(match)
	qb = visibilityFilter(qb, viewerID, viewAll)

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("can't build sql: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *GalleryRepo) RelatedGalleries(ctx context.Context, categoryCode int, excludeID, viewerID uuid.UUID, limit int) ([]models.GalleryListItem, error) {
	const op = "repository.gallery_repository.RelatedGalleries"

	qb := visibilityFilter(r.listQuery(), viewerID, false).
		Where(sq.Eq{"g.category_code": categoryCode}).
		Where(sq.NotEq{"g.id": excludeID}).
		OrderBy("total_views DESC").
		Limit(uint64(limit))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	items, err := r.scanListItems(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (r *GalleryRepo) TopCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	const op = "repository.gallery_repository.TopCategories"

	query, args, err := r.sb.Select("category_code", "COUNT(*) AS galleries").
		From("galleries").
		Where(sq.NotEq{"category_code": nil}).
		Where(sq.Eq{"public": true}).
		GroupBy("category_code").
		OrderBy("galleries DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var counts []models.CategoryCount
	for rows.Next() {
		var (
			code  int
			total int
		)
		if err := rows.Scan(&code, &total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		cat, ok := models.CategoryByCode(code)
		if !ok {
			continue
		}
		counts = append(counts, models.CategoryCount{Category: cat, GalleryCount: total})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return counts, nil
}

// GalleryImagePaths отдает пути файлов галереи для очистки хранилища перед удалением.
func (r *GalleryRepo) GalleryImagePaths(ctx context.Context, galleryID uuid.UUID) ([]string, error) {
	const op = "repository.gallery_repository.GalleryImagePaths"

	query, args, err := r.sb.Select("image_path").
		From("photos").
		Where(sq.Eq{"gallery_id": galleryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return paths, nil
}

func (r *GalleryRepo) OwnerUsername(ctx context.Context, galleryID uuid.UUID) (string, error) {
	const op = "repository.gallery_repository.OwnerUsername"

	query, args, err := r.sb.Select("u.username").
		From("galleries g").
		Join("users u ON u.id = g.user_id").
		Where(sq.Eq{"g.id": galleryID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var username string
	err = r.db.QueryRow(ctx, query, args...).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return username, nil
}

func (r *GalleryRepo) scanListItems(ctx context.Context, query string, args []interface{}) ([]models.GalleryListItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.GalleryListItem
	for rows.Next() {
		var item models.GalleryListItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Slug,
			&item.UserID,
			&item.Public,
			&item.CategoryCode,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.OwnerUsername,
			&item.PhotoCount,
			&item.TotalViews,
			&item.CoverPath,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
