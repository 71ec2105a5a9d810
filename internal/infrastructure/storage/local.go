// Package storage holds the attachment store strategies.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// LocalStore writes attachments into a directory served statically under
// urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

var _ ports.AttachmentStore = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

func (s *LocalStore) Backend() string { return "local" }

// Store writes the upload under a collision-resistant name and returns its public URL.
func (s *LocalStore) Store(ctx context.Context, up domain.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := localFilename(up.Filename, up.ContentType, s.now())
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}

	if _, err := io.Copy(f, up.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close attachment: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}

// Delete removes the file named by the URL's last path segment. A missing file
// is not an error.
func (s *LocalStore) Delete(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := path.Base(urlPath(rawURL))
	if name == "" || name == "." || name == "/" || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}

// localFilename builds <stem>-<unix millis>-<random><ext>. The extension comes
// from the detected content type so a static file server never sees the
// client's extension.
func localFilename(original, contentType string, at time.Time) string {
	return fmt.Sprintf("%s-%d-%d%s", safeStem(original), at.UnixMilli(), rand.IntN(1e9), storedExt(contentType))
}

// safeStem keeps only [a-zA-Z0-9_] of the client filename, minus directories
// and extension.
func safeStem(original string) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	stem := unsafeNameChars.ReplaceAllString(strings.TrimSuffix(base, path.Ext(base)), "_")
	if strings.Trim(stem, "_") == "" {
		return "image"
	}
	return stem
}

func storedExt(contentType string) string {
	if ext, ok := domain.ImageExtension(contentType); ok {
		return ext
	}
	return ".bin"
}

func urlPath(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Path
	}
	return raw
}
