package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(
			"username",
			"email",
			"pass_hash",
			"image_path",
			"is_staff",
			"last_login",
		).
		Values(
			user.Username,
			user.Email,
			user.PassHash,
			user.ImagePath,
			user.IsStaff,
			time.Now().UTC(),
		).
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

// UserByIdentifier возвращает пользователя по имени или email (без учета регистра)
func (r *UserRepo) UserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	const op = "repository.user_repository.UserByIdentifier"

	query, args, err := r.sb.Select(
		"id", "username", "email", "pass_hash", "image_path", "is_staff", "created_at", "last_login",
	).
		From("users").
		Where(sq.Or{
			sq.Expr("lower(username) = lower(?)", identifier),
			sq.Expr("lower(email) = lower(?)", identifier),
		}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PassHash,
		&user.ImagePath,
		&user.IsStaff,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "repository.user_repository.GetUserByID"

	query, args, err := r.sb.Select(
		"id", "username", "email", "pass_hash", "image_path", "is_staff", "created_at", "last_login",
	).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PassHash,
		&user.ImagePath,
		&user.IsStaff,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) IsStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "repository.user_repository.IsStaff"

	query, args, err := r.sb.Select("is_staff").From("users").Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var isStaff bool
	err = r.db.QueryRow(ctx, query, args...).Scan(&isStaff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isStaff, nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	const op = "repository.user_repository.TouchLastLogin"

	query, args, err := r.sb.Update("users").
		Set("last_login", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
