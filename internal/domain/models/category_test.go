package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryByCode(t *testing.T) {
	cat, ok := CategoryByCode(0)
	require.True(t, ok)
	assert.Equal(t, "general", cat.Name)

	_, ok = CategoryByCode(-1)
	assert.False(t, ok)

	_, ok = CategoryByCode(len(Categories()))
	assert.False(t, ok)
}

func TestCategoryByName(t *testing.T) {
	cat, ok := CategoryByName("  LandScape ")
	require.True(t, ok)
	assert.Equal(t, "landscape", cat.Name)

	_, ok = CategoryByName("nonexistent")
	assert.False(t, ok)
}

func TestCategoryCodesBySlugMatch(t *testing.T) {
	// "black and white" и "milky way" имеют многословные slug.
	codes := CategoryCodesBySlugMatch("black-and-white")
	require.Len(t, codes, 1)

	cat, ok := CategoryByCode(codes[0])
	require.True(t, ok)
	assert.Equal(t, "black and white", cat.Name)

	assert.Empty(t, CategoryCodesBySlugMatch(""))
	assert.Empty(t, CategoryCodesBySlugMatch("zzz"))
}

func TestGalleryCategory(t *testing.T) {
	var g Gallery
	_, ok := g.Category()
	assert.False(t, ok)

	code := 26
	g.CategoryCode = &code
	cat, ok := g.Category()
	require.True(t, ok)
	assert.Equal(t, "landscape", cat.Name)
}
