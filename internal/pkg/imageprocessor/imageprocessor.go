package imageprocessor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Thumbnail bounds; the aspect ratio is preserved.
const (
	ThumbnailWidth  = 400
	ThumbnailHeight = 300
	JPEGQuality     = 85
)

// Result is a processed photo ready to be stored.
type Result struct {
	Width     int
	Height    int
	Thumbnail []byte // JPEG
}

// Process decodes an uploaded photo, applies its EXIF orientation and renders
// a JPEG thumbnail that fits into ThumbnailWidth x ThumbnailHeight.
func Process(data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	thumb, err := Thumbnail(img, ThumbnailWidth, ThumbnailHeight)
	if err != nil {
		return nil, err
	}

	return &Result{
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		Thumbnail: thumb,
	}, nil
}

// Thumbnail scales img down to fit into w x h and encodes it as JPEG.
// Smaller images are not enlarged.
func Thumbnail(img image.Image, w, h int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > w || b.Dy() > h {
		img = imaging.Fit(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("error encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
