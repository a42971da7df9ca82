package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestEnumerateImagesFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.jpg"))
	touch(t, filepath.Join(root, "b.HEIC"))
	touch(t, filepath.Join(root, "c.png"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "video.mp4"))
	touch(t, filepath.Join(root, "noextension"))

	files := EnumerateImages(root)
	if len(files) != 3 {
		t.Fatalf("EnumerateImages() returned %d files, want 3: %v", len(files), files)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) && filepath.IsAbs(root) {
			t.Errorf("expected path rooted under %s, got %s", root, f)
		}
	}
}

func TestEnumerateImagesRecursesSubdirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.jpg"))
	touch(t, filepath.Join(root, "2023", "spring", "trip.jpeg"))
	touch(t, filepath.Join(root, "2024", "winter.webp"))

	files := EnumerateImages(root)
	if len(files) != 3 {
		t.Fatalf("EnumerateImages() returned %d files, want 3: %v", len(files), files)
	}
}

func TestEnumerateImagesSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "visible.jpg"))
	touch(t, filepath.Join(root, ".hidden.jpg"))
	touch(t, filepath.Join(root, ".cache", "thumb.jpg"))

	files := EnumerateImages(root)
	if len(files) != 1 {
		t.Fatalf("EnumerateImages() returned %d files, want 1: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "visible.jpg" {
		t.Errorf("kept %s, want visible.jpg", files[0])
	}
}

func TestEnumerateImagesNaturalOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "img10.jpg"))
	touch(t, filepath.Join(root, "img2.jpg"))
	touch(t, filepath.Join(root, "img1.jpg"))

	files := EnumerateImages(root)
	if len(files) != 3 {
		t.Fatalf("EnumerateImages() returned %d files, want 3", len(files))
	}
	wantOrder := []string{"img1.jpg", "img2.jpg", "img10.jpg"}
	for i, want := range wantOrder {
		if filepath.Base(files[i]) != want {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(files[i]), want)
		}
	}
}

func TestEnumerateImagesMissingRoot(t *testing.T) {
	files := EnumerateImages(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(files) != 0 {
		t.Errorf("EnumerateImages() on missing root = %v, want empty", files)
	}
}

func TestEnumerateImagesRootIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "just-a-file.jpg")
	touch(t, file)

	files := EnumerateImages(file)
	if len(files) != 0 {
		t.Errorf("EnumerateImages() on a file root = %v, want empty", files)
	}
}
