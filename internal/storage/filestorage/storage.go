package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	apperrors "photoshare/internal/storage"

	"github.com/google/uuid"
)

// FileStorage интерфейс для работы с файловым хранилищем
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, subPath string) (filePath string, fileSize int64, err error)
	Delete(ctx context.Context, filePath string) error
	GetFullPath(relativePath string) string
	BaseURL() string
	GetBaseDir() string
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string
	baseURL string
	maxSize int64
}

func NewLocalFileStorage(baseDir, baseURL string, maxSize int64) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: baseURL,
		maxSize: maxSize,
	}, nil
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader, subPath string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", 0, apperrors.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", 0, apperrors.ErrInvalidFileType
	}

	// Имя на диске не зависит от клиентского: два файла с одинаковым
	// именем не должны перетирать друг друга.
	relPath := filepath.Join(subPath, uuid.New().String()+ext)
	filePath := filepath.Join(s.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return "", 0, ctx.Err()
	}

	return relPath, size, nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	fullPath := filepath.Join(s.baseDir, filePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return apperrors.ErrFileNotFound
		}
		return err
	}
	return nil
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}
