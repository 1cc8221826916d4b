package repository

import (
	"errors"

	"photoshare/internal/storage"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db      *pgxpool.Pool
	User    UserRepository
	Gallery GalleryRepository
	Photo   PhotoRepository
	Rate    RateRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:      db,
		User:    NewUserRepository(db),
		Gallery: NewGalleryRepo(db),
		Photo:   NewPhotoRepo(db),
		Rate:    NewRateRepo(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

const uniqueViolation = "23505"

// translateConstraint maps postgres unique violations onto storage
// sentinels, keyed by the index names from the schema.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "users_username_key", "users_email_key":
		return storage.ErrUserExists
	case "galleries_owner_name_key":
		return storage.ErrGalleryExists
	case "photos_gallery_title_key":
		return storage.ErrPhotoTitleTaken
	}

	return err
}
