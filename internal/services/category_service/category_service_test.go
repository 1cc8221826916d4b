package services

import (
	"testing"

	"photoshare/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_List(t *testing.T) {
	service := NewCategoryService()

	cats := service.List()
	require.NotEmpty(t, cats)

	// Каталог закрытый, коды идут подряд от нуля.
	for i, cat := range cats {
		assert.Equal(t, i, cat.Code)
		assert.NotEmpty(t, cat.Name)
		assert.NotEmpty(t, cat.Slug)
		assert.NotEmpty(t, cat.Label)
	}
}

func TestCategoryService_Resolve(t *testing.T) {
	service := NewCategoryService()

	t.Run("by numeric code", func(t *testing.T) {
		cat, err := service.Resolve("0")
		require.NoError(t, err)
		assert.Equal(t, "general", cat.Name)
	})

	t.Run("by name case-insensitive", func(t *testing.T) {
		cat, err := service.Resolve("Landscape")
		require.NoError(t, err)
		assert.Equal(t, "landscape", cat.Name)
	})

	t.Run("numeric code out of range", func(t *testing.T) {
		_, err := service.Resolve("9999")
		assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := service.Resolve("no such category")
		assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
	})
}

func TestCategoryService_ByCode(t *testing.T) {
	service := NewCategoryService()

	cat, err := service.ByCode(0)
	require.NoError(t, err)
	assert.Equal(t, "general", cat.Name)

	_, err = service.ByCode(-1)
	assert.ErrorIs(t, err, storage.ErrCategoryNotFound)
}
