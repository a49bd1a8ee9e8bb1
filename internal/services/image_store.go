package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/xid"
)

// MaxImageSize 上传图片大小上限 (10MB)
const MaxImageSize = 10 << 20

// imageTypes are the raster formats accepted for posts. No SVG: media is
// served from the site's own origin.
var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageUpload is an image attached to a post form.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ImageStore persists post images and hands back a reference that is
// stored on the post.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Remove(ctx context.Context, ref string) error
}

// LocalImageStore keeps images under Root, in a posts/ sub-directory, the
// reference being the slash-separated path relative to Root.
type LocalImageStore struct {
	Root string
}

func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{Root: root}
}

func (s *LocalImageStore) Save(ctx context.Context, upload ImageUpload) (string, error) {
	data, err := io.ReadAll(io.LimitReader(upload.Content, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", fieldError("image", "Image must not exceed 10MB.")
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), imageTypes...) {
		return "", fieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}
	ref := path.Join("posts", xid.New().String()+ext)

	dir := filepath.Join(s.Root, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Root, filepath.FromSlash(ref)), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return ref, nil
}

// Remove deletes a stored image; a missing file is not an error.
func (s *LocalImageStore) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	clean := path.Clean("/" + ref)[1:]
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
