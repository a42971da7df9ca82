package media

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 60, B: 30, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypeThumbnail: "thumbnails",
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

func TestGenerateThumbnailCoverCrop(t *testing.T) {
	store := newTestStore(t)
	p := NewProcessor(store, 300)

	// a wide landscape frame: cover-crop must still come out square
	data := encodeTestJPEG(t, 800, 400)
	relPath, err := p.GenerateThumbnail(data, "holiday snap.jpg")
	if err != nil {
		t.Fatalf("GenerateThumbnail() returned error: %v", err)
	}

	if !strings.HasPrefix(relPath, "thumbnails/") {
		t.Errorf("relative path = %q, want thumbnails/ prefix", relPath)
	}
	if !strings.HasSuffix(relPath, ThumbnailFileExtension) {
		t.Errorf("relative path = %q, want %s suffix", relPath, ThumbnailFileExtension)
	}
	if !strings.Contains(relPath, "holiday-snap") {
		t.Errorf("relative path = %q, want the sanitized base name embedded", relPath)
	}

	fullPath, err := store.GetFullPath(relPath)
	if err != nil {
		t.Fatalf("GetFullPath() returned error: %v", err)
	}
	saved, err := imaging.Open(fullPath)
	if err != nil {
		t.Fatalf("saved thumbnail does not decode: %v", err)
	}
	b := saved.Bounds()
	if b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("thumbnail dimensions = %dx%d, want 300x300", b.Dx(), b.Dy())
	}
}

func TestGenerateThumbnailPortraitSource(t *testing.T) {
	store := newTestStore(t)
	p := NewProcessor(store, 120)

	data := encodeTestJPEG(t, 200, 600)
	relPath, err := p.GenerateThumbnail(data, "tall.png")
	if err != nil {
		t.Fatal(err)
	}

	fullPath, _ := store.GetFullPath(relPath)
	saved, err := imaging.Open(fullPath)
	if err != nil {
		t.Fatal(err)
	}
	b := saved.Bounds()
	if b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("thumbnail dimensions = %dx%d, want 120x120", b.Dx(), b.Dy())
	}
}

func TestGenerateThumbnailUniqueNames(t *testing.T) {
	store := newTestStore(t)
	p := NewProcessor(store, 50)
	data := encodeTestJPEG(t, 100, 100)

	first, err := p.GenerateThumbnail(data, "same.jpg")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.GenerateThumbnail(data, "same.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("two thumbnails of the same source share the path %q", first)
	}
}

func TestGenerateThumbnailRejectsBadInput(t *testing.T) {
	store := newTestStore(t)
	p := NewProcessor(store, 300)

	if _, err := p.GenerateThumbnail(nil, "empty.jpg"); err == nil {
		t.Error("empty buffer: expected error")
	}
	if _, err := p.GenerateThumbnail([]byte("definitely not an image"), "garbage.jpg"); err == nil {
		t.Error("undecodable buffer: expected error")
	}

	// nothing should have been written for the failed attempts
	entries, err := os.ReadDir(filepath.Join(store.basePath, "thumbnails"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed generations left %d file(s) behind", len(entries))
	}
}

func TestSanitizeBaseName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IMG_1234.jpg", "IMG_1234"},
		{"holiday snap.jpg", "holiday-snap"},
		{"/abs/path/to/p-h_0.to.png", "p-h_0-to"},
		{"été.jpg", "-t-"},
		{"", "photo"},
	}
	for _, tc := range cases {
		if got := sanitizeBaseName(tc.in); got != tc.want {
			t.Errorf("sanitizeBaseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyOrientationSwapsDimensions(t *testing.T) {
	img := imaging.New(40, 20, color.NRGBA{})

	for _, o := range []int{5, 6, 7, 8} {
		got := applyOrientation(img, o)
		b := got.Bounds()
		if b.Dx() != 20 || b.Dy() != 40 {
			t.Errorf("orientation %d: dimensions = %dx%d, want 20x40", o, b.Dx(), b.Dy())
		}
	}
	for _, o := range []int{1, 2, 3, 4} {
		got := applyOrientation(img, o)
		b := got.Bounds()
		if b.Dx() != 40 || b.Dy() != 20 {
			t.Errorf("orientation %d: dimensions = %dx%d, want 40x20", o, b.Dx(), b.Dy())
		}
	}
}
