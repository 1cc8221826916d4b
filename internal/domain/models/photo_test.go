package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunset over bay", "Sunset over bay"},
		{"  Sunset   over \t bay  ", "Sunset over bay"},
		{"\n\n", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTitle(tt.in))
	}
}

func TestDownloadFilename(t *testing.T) {
	p := Photo{Title: "Sunset over bay"}

	assert.Equal(t, "Photoshare_Sunset_over_bay_by_alice.jpg", p.DownloadFilename("Photoshare", "alice"))
}
