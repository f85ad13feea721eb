package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const maxImageSize = 10 << 20

var (
	ErrNotAnImage    = errors.New("upload a valid image")
	ErrImageTooLarge = errors.New("image exceeds 10MB")
)

// SaveImage stores an uploaded image under root/posts and returns its slash separated path
// relative to root.
func SaveImage(root string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxImageSize {
		return "", ErrImageTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotAnImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	rel := path.Join("posts", uuid.NewString()+mt.Extension())
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(src, maxImageSize+1))
	if err == nil && written > maxImageSize {
		err = ErrImageTooLarge
	}
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	return rel, nil
}
