package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Uniqueness invariants live here, not only in application pre-checks:
// concurrent creations must not be able to slip past validation.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	pass_hash BYTEA NOT NULL,
	image_path TEXT NOT NULL DEFAULT '',
	is_staff BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_login TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (lower(username));
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));

CREATE TABLE IF NOT EXISTS galleries (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL CHECK (char_length(name) >= 3),
	slug TEXT NOT NULL,
	user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	public BOOLEAN NOT NULL DEFAULT TRUE,
	category_code INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS galleries_owner_name_key ON galleries (user_id, lower(name));
CREATE INDEX IF NOT EXISTS galleries_category_idx ON galleries (category_code);
CREATE INDEX IF NOT EXISTS galleries_created_idx ON galleries (created_at);

CREATE TABLE IF NOT EXISTS photos (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	gallery_id UUID NOT NULL REFERENCES galleries (id) ON DELETE CASCADE,
	title TEXT NOT NULL CHECK (char_length(title) >= 3),
	slug TEXT NOT NULL,
	image_path TEXT NOT NULL,
	is_cover BOOLEAN NOT NULL DEFAULT FALSE,
	views BIGINT NOT NULL DEFAULT 0,
	downloads BIGINT NOT NULL DEFAULT 0,
	tags TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS photos_gallery_title_key ON photos (gallery_id, lower(title));
CREATE UNIQUE INDEX IF NOT EXISTS photos_gallery_cover_key ON photos (gallery_id) WHERE is_cover;
CREATE INDEX IF NOT EXISTS photos_gallery_idx ON photos (gallery_id);

CREATE TABLE IF NOT EXISTS rates (
	user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	photo_id UUID NOT NULL REFERENCES photos (id) ON DELETE CASCADE,
	liked BOOLEAN NOT NULL DEFAULT FALSE,
	starred BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (user_id, photo_id)
);
`

// Bootstrap applies the schema. Statements are idempotent, safe to run on
// every start.
func Bootstrap(ctx context.Context, db *pgxpool.Pool) error {
	const op = "storage.postgresql.Bootstrap"

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
