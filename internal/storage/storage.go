package storage

import "errors"

var (
	ErrUserExists       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrGalleryExists    = errors.New("gallery with this name already exists")
	ErrGalleryNotFound  = errors.New("gallery not found")
	ErrPhotoTitleTaken  = errors.New("photo title already taken")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrCategoryNotFound = errors.New("category does not exist")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)
