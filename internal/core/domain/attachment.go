package domain

import (
	"errors"
	"io"
	"strings"
)

var (
	ErrUnsupportedMediaType        = errors.New("only image files are allowed")
	ErrAttachmentTooLarge          = errors.New("image exceeds the maximum upload size")
	ErrAttachmentDeleteUnsupported = errors.New("attachment backend does not support deletion")
)

// imageExtensions lists the accepted raster formats and the extension they are
// stored under. SVG is excluded because browsers execute scripts embedded in it.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/avif": ".avif",
	"image/tiff": ".tiff",
}

// Upload is an inbound binary waiting to be persisted by an attachment store.
// ContentType is the type detected from the content, not the one the client sent.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// IsImage reports whether ContentType is one of the accepted image formats.
func (u Upload) IsImage() bool {
	_, ok := ImageExtension(u.ContentType)
	return ok
}

// ImageExtension returns the stored file extension for an accepted image
// content type. Parameters such as "; charset=" are ignored.
func ImageExtension(contentType string) (string, bool) {
	mediaType, _, _ := strings.Cut(contentType, ";")
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(mediaType))]
	return ext, ok
}
