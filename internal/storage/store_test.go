package storage

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestPNG renders a small image to disk and returns an open handle.
func writeTestPNG(t *testing.T, dir string) (*os.File, int64) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for x := 0; x < 600; x++ {
		for y := 0; y < 400; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}
	path := filepath.Join(dir, "src.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create source image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close source image: %v", err)
	}
	src, err := os.Open(path)
	if err != nil {
		t.Fatalf("reopen source image: %v", err)
	}
	info, err := src.Stat()
	if err != nil {
		t.Fatalf("stat source image: %v", err)
	}
	return src, info.Size()
}

func header(filename string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": {"image/png"}},
	}
}

func TestSaveStoresImageAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/product-images/")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	src, size := writeTestPNG(t, t.TempDir())
	defer src.Close()

	url, thumbURL, err := store.Save(src, header("photo.png", size), true)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/static/product-images/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}
	if thumbURL == "" {
		t.Fatal("expected a thumbnail URL for the primary image")
	}

	// both files must exist on disk
	for _, u := range []string{url, thumbURL} {
		name := strings.TrimPrefix(u, "/static/product-images/")
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("stored file missing for %q: %v", u, err)
		}
	}
}

func TestSaveWithoutThumbnail(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/img")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	src, size := writeTestPNG(t, t.TempDir())
	defer src.Close()

	url, thumbURL, err := store.Save(src, header("gallery.png", size), false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url == "" || thumbURL != "" {
		t.Fatalf("gallery images get no thumbnail: url=%q thumb=%q", url, thumbURL)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/img")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	src, _ := writeTestPNG(t, t.TempDir())
	defer src.Close()

	_, _, err = store.Save(src, header("huge.png", MaxImageBytes+1), true)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/img")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	src, size := writeTestPNG(t, t.TempDir())
	defer src.Close()

	_, _, err = store.Save(src, header("document.pdf", size), true)
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}
