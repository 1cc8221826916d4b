package models

import (
	"strings"

	"github.com/gosimple/slug"
)

// Category — запись закрытого каталога категорий.
// Каталог фиксированный и не хранится в БД: код категории в galleries
// ссылается на него по значению.
type Category struct {
	Code  int    `json:"code"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

var categoryNames = [...]string{
	"general",
	"abstract",
	"adventure",
	"architectural",
	"art",
	"black and white",
	"business",
	"candid",
	"cityscape",
	"commercial",
	"composite",
	"creative",
	"documentary",
	"drone",
	"double-exposure",
	"editorial",
	"event",
	"family",
	"fashion",
	"film",
	"fine art",
	"food",
	"golden hour",
	"holiday",
	"indoor",
	"infrared",
	"landscape",
	"lifestyle",
	"long exposure",
	"musical",
	"milky way",
	"minimalist",
	"newborn",
	"night",
	"pet",
	"portrait",
	"product",
	"real estate",
	"seascape",
	"social media",
	"sports",
	"still-life",
	"surreal",
	"street",
	"time-lapse",
	"travel",
	"underwater",
	"urban exploration",
	"war",
	"wedding",
	"wildlife",
}

// Цветовые метки бейджей категорий.
var categoryLabels = [...]string{
	"bgc-blue text-white",
	"bgc-black text-white",
	"bgc-grey text-white",
	"bgc-green text-dark",
	"bgc-yellow text-dark",
	"bgc-red text-white",
	"bgc-cyan text-white",
	"bgc-orange text-white",
	"bgc-brown text-white",
	"bgc-lt-brown text-white",
	"bgc-pink text-white",
	"bgc-purple text-white",
}

func categoryAt(code int) Category {
	name := categoryNames[code]
	return Category{
		Code:  code,
		Name:  name,
		Label: categoryLabels[code%len(categoryLabels)],
		Slug:  slug.Make(name),
	}
}

// Categories returns the full catalog ordered by code.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for code := range categoryNames {
		out[code] = categoryAt(code)
	}
	return out
}

func CategoryByCode(code int) (Category, bool) {
	if code < 0 || code >= len(categoryNames) {
		return Category{}, false
	}
	return categoryAt(code), true
}

// CategoryByName resolves a category by case-insensitive display name.
func CategoryByName(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for code, n := range categoryNames {
		if n == name {
			return categoryAt(code), true
		}
	}
	return Category{}, false
}

// CategoryCodesBySlugMatch returns codes of all categories whose slug
// contains the given substring. Used by gallery search.
func CategoryCodesBySlugMatch(q string) []int {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var codes []int
	for code := range categoryNames {
		if strings.Contains(slug.Make(categoryNames[code]), q) {
			codes = append(codes, code)
		}
	}
	return codes
}

// CategoryCount — категория с количеством галерей, для трендов.
type CategoryCount struct {
	Category
	GalleryCount int `json:"gallery_count"`
}
