package access

import (
	"errors"

	"photoshare/internal/domain/models"
)

var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
)

// Policy решает, что актор может делать с галереей и ее фотографиями.
// Видимость фото всегда наследуется от галереи.
type Policy struct{}

// CanReadGallery: публичные галереи видны всем, приватные только
// владельцу и персоналу.
func (Policy) CanReadGallery(actor models.Actor, gallery models.Gallery) bool {
	if gallery.Public {
		return true
	}
	if actor.IsAnonymous() {
		return false
	}
	return actor.IsStaff || actor.ID == gallery.UserID
}

// CanWriteGallery охватывает изменение, удаление, загрузку фото и смену обложки.
func (Policy) CanWriteGallery(actor models.Actor, gallery models.Gallery) bool {
	if actor.IsAnonymous() {
		return false
	}
	return actor.IsStaff || actor.ID == gallery.UserID
}

func (p Policy) CanReadPhoto(actor models.Actor, gallery models.Gallery) bool {
	return p.CanReadGallery(actor, gallery)
}

func (p Policy) CanWritePhoto(actor models.Actor, gallery models.Gallery) bool {
	return p.CanWriteGallery(actor, gallery)
}
