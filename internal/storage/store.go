// Package storage persists listing images. The production deployment mounts
// a shared volume; the store only needs save-bytes and resolve-public-URL,
// so swapping in an object storage service later means implementing
// ImageStore against its SDK.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxImageBytes caps a single listing image at 5MB.
const MaxImageBytes = 5 << 20

// MaxImagesPerListing caps the primary image plus gallery at 5 files.
const MaxImagesPerListing = 5

var (
	// ErrTooLarge is returned for files over MaxImageBytes.
	ErrTooLarge = errors.New("image exceeds 5MB limit")
	// ErrNotImage is returned for files that are not jpg/jpeg/png/webp.
	ErrNotImage = errors.New("unsupported file type")
)

// ImageStore saves listing images and resolves their public URLs.
type ImageStore interface {
	// Save writes the uploaded file and returns its public URL. When thumb
	// is true, a 300x300 thumbnail is generated next to the original and its
	// URL returned second; otherwise thumbURL is empty.
	Save(file multipart.File, header *multipart.FileHeader, thumb bool) (url, thumbURL string, err error)
}

// LocalStore keeps images on the local filesystem under Dir and serves them
// below BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Save stores one uploaded image under a random name.
func (s *LocalStore) Save(file multipart.File, header *multipart.FileHeader, thumb bool) (string, string, error) {
	if header.Size > MaxImageBytes {
		return "", "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		return "", "", ErrNotImage
	}
	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", "", ErrNotImage
	}

	name := uuid.New().String()
	filename := name + ext
	path := filepath.Join(s.Dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(file, MaxImageBytes+1)); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", "", err
	}

	url := s.BaseURL + "/" + filename
	if !thumb {
		return url, "", nil
	}
	thumbName, err := s.createThumb(name, ext)
	if err != nil {
		// the listing still works without a thumbnail
		log.Printf("storage: thumbnail for %s failed: %v", filename, err)
		return url, "", nil
	}
	return url, s.BaseURL + "/" + thumbName, nil
}

// createThumb writes a 300x300 cover-cropped thumbnail next to the original.
func (s *LocalStore) createThumb(name, ext string) (string, error) {
	src, err := imaging.Open(filepath.Join(s.Dir, name+ext))
	if err != nil {
		return "", fmt.Errorf("open image for thumbnail: %w", err)
	}
	th := imaging.Thumbnail(src, 300, 300, imaging.Lanczos)
	thumbName := name + "_thumb" + ext
	if ext == ".webp" {
		// imaging cannot encode webp; fall back to jpeg for the thumbnail
		thumbName = name + "_thumb.jpg"
	}
	if err := imaging.Save(th, filepath.Join(s.Dir, thumbName)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	return thumbName, nil
}
