package imaging

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/nfnt/resize"
)

// ResizeToFit downscales the image at path to exactly width x height when it
// exceeds either bound, overwriting the file in place. Images already within
// bounds are left untouched. The target size is fixed, not aspect-preserving:
// uploads are uniformed to one thumbnail-friendly size.
func ResizeToFit(path string, width, height int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= width && bounds.Dy() <= height {
		return nil
	}

	scaled := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite image: %w", err)
	}
	defer out.Close()

	switch format {
	case "png":
		err = png.Encode(out, scaled)
	case "gif":
		err = gif.Encode(out, scaled, nil)
	default:
		err = jpeg.Encode(out, scaled, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	return nil
}
