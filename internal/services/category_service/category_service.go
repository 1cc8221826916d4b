package services

import (
	"fmt"
	"strconv"

	"photoshare/internal/domain/models"
	"photoshare/internal/storage"
)

// CategoryService отдает закрытый каталог категорий. Каталог собран в
// бинарнике, поэтому сервису не нужны ни контекст, ни репозиторий.
type CategoryService struct{}

func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

func (s *CategoryService) List() []models.Category {
	return models.Categories()
}

// Resolve принимает числовой код или имя категории. Числовая строка
// трактуется как код, даже если совпадает с именем.
func (s *CategoryService) Resolve(ref string) (models.Category, error) {
	const op = "services.category_service.Resolve"

	if code, err := strconv.Atoi(ref); err == nil {
		cat, ok := models.CategoryByCode(code)
		if !ok {
			return models.Category{}, fmt.Errorf("%s: %w", op, storage.ErrCategoryNotFound)
		}
		return cat, nil
	}

	cat, ok := models.CategoryByName(ref)
	if !ok {
		return models.Category{}, fmt.Errorf("%s: %w", op, storage.ErrCategoryNotFound)
	}

	return cat, nil
}

func (s *CategoryService) ByCode(code int) (models.Category, error) {
	const op = "services.category_service.ByCode"

	cat, ok := models.CategoryByCode(code)
	if !ok {
		return models.Category{}, fmt.Errorf("%s: %w", op, storage.ErrCategoryNotFound)
	}

	return cat, nil
}
