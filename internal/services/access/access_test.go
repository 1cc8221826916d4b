package access

import (
	"testing"

	"photoshare/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_Gallery(t *testing.T) {
	ownerID := uuid.New()

	owner := models.Actor{ID: ownerID, Authenticated: true}
	stranger := models.Actor{ID: uuid.New(), Authenticated: true}
	staff := models.Actor{ID: uuid.New(), Authenticated: true, IsStaff: true}
	anonymous := models.Actor{}

	public := models.Gallery{ID: uuid.New(), UserID: ownerID, Public: true}
	private := models.Gallery{ID: uuid.New(), UserID: ownerID, Public: false}

	var policy Policy

	tests := []struct {
		name      string
		actor     models.Actor
		gallery   models.Gallery
		canRead   bool
		canWrite  bool
	}{
		{"anonymous reads public", anonymous, public, true, false},
		{"anonymous blocked from private", anonymous, private, false, false},
		{"stranger reads public only", stranger, public, true, false},
		{"stranger blocked from private", stranger, private, false, false},
		{"owner full access to private", owner, private, true, true},
		{"owner full access to public", owner, public, true, true},
		{"staff full access to private", staff, private, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canRead, policy.CanReadGallery(tt.actor, tt.gallery))
			assert.Equal(t, tt.canWrite, policy.CanWriteGallery(tt.actor, tt.gallery))
			// Доступ к фото всегда совпадает с доступом к галерее.
			assert.Equal(t, tt.canRead, policy.CanReadPhoto(tt.actor, tt.gallery))
			assert.Equal(t, tt.canWrite, policy.CanWritePhoto(tt.actor, tt.gallery))
		})
	}
}
