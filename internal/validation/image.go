package validation

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	_ "golang.org/x/image/webp"
)

// ErrNotAnImage is returned when the probed bytes are not a decodable image.
var ErrNotAnImage = errors.New("content is not a recognizable image")

// ImageInfo is the result of probing an object's actual bytes.
type ImageInfo struct {
	Format   string // short type token: "jpeg", "png", "gif", "webp"
	MimeType string
	Width    int
	Height   int
}

// extensionFormats maps declared file extensions to the format token the
// probe is expected to report for them.
var extensionFormats = map[string]string{
	"jpg":  "jpeg",
	"jpeg": "jpeg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// Probe reads enough of r to determine the real image type and pixel
// dimensions. It never trusts declared metadata.
func Probe(r io.Reader) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return &ImageInfo{
		Format:   format,
		MimeType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// ExtensionMatches reports whether a declared extension agrees with the
// probed format token.
func ExtensionMatches(extension, format string) bool {
	want, ok := extensionFormats[strings.ToLower(strings.TrimPrefix(extension, "."))]
	return ok && want == format
}

// NormalizeExtension lowercases an extension and strips a leading dot.
// Returns an error for extensions no decoder is registered for.
func NormalizeExtension(extension string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if _, ok := extensionFormats[ext]; !ok {
		return "", fmt.Errorf("unsupported file extension: %q", extension)
	}
	return ext, nil
}
