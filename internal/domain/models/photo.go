package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GalleryID uuid.UUID `db:"gallery_id" json:"gallery_id"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	ImagePath string    `db:"image_path" json:"image_path"`
	IsCover   bool      `db:"is_cover" json:"is_cover"`
	Views     int64     `db:"views" json:"views"`
	Downloads int64     `db:"downloads" json:"downloads"`
	Tags      []string  `db:"tags" json:"tags,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeTitle collapses whitespace runs and trims the string.
// Gallery names and photo titles are compared in this normalized form.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// DownloadFilename builds the attachment name served on photo download,
// e.g. "Photoshare_Sunset_over_bay_by_alice.jpg".
func (p Photo) DownloadFilename(app, owner string) string {
	title := strings.ReplaceAll(p.Title, " ", "_")
	return app + "_" + title + "_by_" + owner + ".jpg"
}
