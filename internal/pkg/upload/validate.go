package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxPhotoBytes is the largest accepted photo upload.
const MaxPhotoBytes = 10 << 20

var (
	ErrUnsupportedType = errors.New("only JPG, JPEG, PNG, GIF and BMP images are supported")
	ErrScriptable      = errors.New("invalid file type: HTML, SVG and XML content is not allowed")
	ErrTooLarge        = fmt.Errorf("the photo is larger than %d MB", MaxPhotoBytes>>20)
	ErrEmpty           = errors.New("the uploaded file is empty")
)

var allowedExt = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".gif":  ".gif",
	".bmp":  ".bmp",
	// SVG stays excluded: it would need a sanitizer
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
}

// ValidateImageBySniff checks the filename extension and the first bytes
// against a whitelist of image types. Returns the detected mime type.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExt[ext]; !ok {
		return "", ErrUnsupportedType
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") ||
		strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") ||
		detected == "image/svg+xml" {
		return "", ErrScriptable
	}

	if allowedMime[detected] {
		return detected, nil
	}
	return "", ErrUnsupportedType
}

// CanonicalExt returns the extension a stored file should use.
func CanonicalExt(filename string) string {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// Photo is a validated upload held in memory.
type Photo struct {
	Filename    string
	ContentType string
	Ext         string
	Data        []byte
}

// ReadPhoto validates a multipart photo and reads it into memory.
func ReadPhoto(fh *multipart.FileHeader) (*Photo, error) {
	if fh.Size > MaxPhotoBytes {
		return nil, ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxPhotoBytes {
		return nil, ErrTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	mime, err := ValidateImageBySniff(fh.Filename, head)
	if err != nil {
		return nil, err
	}

	return &Photo{
		Filename:    filepath.Base(fh.Filename),
		ContentType: mime,
		Ext:         CanonicalExt(fh.Filename),
		Data:        data,
	}, nil
}
