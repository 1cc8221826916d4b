package repository

import (
	"context"
	"errors"
	"fmt"

	"photoshare/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type RateRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewRateRepo(db *pgxpool.Pool) *RateRepo {
	return &RateRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// UpsertRate перезаписывает оценку пользователя. Пара (user_id, photo_id)
// уникальна, повторная оценка не создает дубликат.
func (r *RateRepo) UpsertRate(ctx context.Context, rate models.Rate) error {
	const op = "repository.rate_repository.UpsertRate"

	query, args, err := r.sb.Insert("rates").
		Columns("user_id", "photo_id", "liked", "starred").
		Values(rate.UserID, rate.PhotoID, rate.Liked, rate.Starred).
		Suffix("ON CONFLICT (user_id, photo_id) DO UPDATE SET liked = EXCLUDED.liked, starred = EXCLUDED.starred").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RateRepo) GetRateSummary(ctx context.Context, photoID uuid.UUID) (models.RateSummary, error) {
	const op = "repository.rate_repository.GetRateSummary"

	query, args, err := r.sb.Select(
		"COUNT(*) FILTER (WHERE liked)",
		"COUNT(*) FILTER (WHERE starred)",
	).
		From("rates").
		Where(sq.Eq{"photo_id": photoID}).
		ToSql()
	if err != nil {
		return models.RateSummary{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var summary models.RateSummary
	err = r.db.QueryRow(ctx, query, args...).Scan(&summary.Likes, &summary.Stars)
	if err != nil {
		return models.RateSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return summary, nil
}

// GetUserRate возвращает нулевую оценку, если пользователь еще не голосовал.
func (r *RateRepo) GetUserRate(ctx context.Context, userID, photoID uuid.UUID) (models.Rate, error) {
	const op = "repository.rate_repository.GetUserRate"

	query, args, err := r.sb.Select("user_id", "photo_id", "liked", "starred").
		From("rates").
		Where(sq.Eq{"user_id": userID, "photo_id": photoID}).
		ToSql()
	if err != nil {
		return models.Rate{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var rate models.Rate
	err = r.db.QueryRow(ctx, query, args...).Scan(&rate.UserID, &rate.PhotoID, &rate.Liked, &rate.Starred)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rate{UserID: userID, PhotoID: photoID}, nil
		}
		return models.Rate{}, fmt.Errorf("%s: %w", op, err)
	}

	return rate, nil
}
