package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("MEDIA_STORAGE_PATH", "")
	t.Setenv("THUMBNAILS_SUBDIR", "")
	t.Setenv("SCAN_INTERVAL_MINUTES", "")
	t.Setenv("EXIFTOOL_PATH", "")
	t.Setenv("EXIFTOOL_TIMEOUT_SECONDS", "")
	t.Setenv("THUMBNAIL_SIZE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.DatabasePath != "photos.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "photos.db")
	}
	if cfg.ScanInterval != 5*time.Minute {
		t.Errorf("ScanInterval = %v, want %v", cfg.ScanInterval, 5*time.Minute)
	}
	if cfg.ExiftoolPath != "exiftool" {
		t.Errorf("ExiftoolPath = %q, want %q", cfg.ExiftoolPath, "exiftool")
	}
	if cfg.ExiftoolTimeout != 20*time.Second {
		t.Errorf("ExiftoolTimeout = %v, want %v", cfg.ExiftoolTimeout, 20*time.Second)
	}
	if cfg.ThumbnailSize != 300 {
		t.Errorf("ThumbnailSize = %d, want 300", cfg.ThumbnailSize)
	}
	if filepath.Base(cfg.ThumbnailsPath) != DefaultThumbnailsSubDir {
		t.Errorf("ThumbnailsPath = %q, want it to end in %q", cfg.ThumbnailsPath, DefaultThumbnailsSubDir)
	}
	if !filepath.IsAbs(cfg.MediaStoragePath) {
		t.Errorf("MediaStoragePath = %q, want an absolute path", cfg.MediaStoragePath)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/data/index.db")
	t.Setenv("SCAN_INTERVAL_MINUTES", "15")
	t.Setenv("THUMBNAIL_SIZE", "512")
	t.Setenv("THUMBNAILS_SUBDIR", "thumbs")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.DatabasePath != "/data/index.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/index.db")
	}
	if cfg.ScanInterval != 15*time.Minute {
		t.Errorf("ScanInterval = %v, want %v", cfg.ScanInterval, 15*time.Minute)
	}
	if cfg.ThumbnailSize != 512 {
		t.Errorf("ThumbnailSize = %d, want 512", cfg.ThumbnailSize)
	}
	if filepath.Base(cfg.ThumbnailsPath) != "thumbs" {
		t.Errorf("ThumbnailsPath = %q, want it to end in %q", cfg.ThumbnailsPath, "thumbs")
	}
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("SCAN_INTERVAL_MINUTES", "not-a-number")
	t.Setenv("THUMBNAIL_SIZE", "-4")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.ScanInterval != 5*time.Minute {
		t.Errorf("ScanInterval = %v, want default %v", cfg.ScanInterval, 5*time.Minute)
	}
	if cfg.ThumbnailSize != 300 {
		t.Errorf("ThumbnailSize = %d, want default 300", cfg.ThumbnailSize)
	}
}

func TestScanRootsFromEnv(t *testing.T) {
	cfg := Config{
		ScanRootsEnv: "/photos/a, /photos/b ,,",
		AppRoot:      "/app",
	}
	roots, err := cfg.ScanRoots()
	if err != nil {
		t.Fatalf("ScanRoots() returned error: %v", err)
	}
	want := []string{"/photos/a", "/photos/b"}
	if len(roots) != len(want) {
		t.Fatalf("ScanRoots() = %v, want %v", roots, want)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i], want[i])
		}
	}
}

func TestScanRootsRelativeResolvedAgainstAppRoot(t *testing.T) {
	cfg := Config{
		ScanRootsEnv: "library/incoming",
		AppRoot:      "/srv/photomap",
	}
	roots, err := cfg.ScanRoots()
	if err != nil {
		t.Fatalf("ScanRoots() returned error: %v", err)
	}
	want := filepath.Join("/srv/photomap", "library", "incoming")
	if len(roots) != 1 || roots[0] != want {
		t.Errorf("ScanRoots() = %v, want [%q]", roots, want)
	}
}

func TestScanRootsFileTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	rootsFile := filepath.Join(dir, "roots.json")
	if err := os.WriteFile(rootsFile, []byte(`["/mnt/photos","/mnt/backup"]`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		ScanRootsEnv:  "/ignored",
		ScanRootsFile: rootsFile,
		AppRoot:       "/app",
	}
	roots, err := cfg.ScanRoots()
	if err != nil {
		t.Fatalf("ScanRoots() returned error: %v", err)
	}
	if len(roots) != 2 || roots[0] != "/mnt/photos" || roots[1] != "/mnt/backup" {
		t.Errorf("ScanRoots() = %v, want [/mnt/photos /mnt/backup]", roots)
	}
}

func TestScanRootsFileErrors(t *testing.T) {
	cfg := Config{ScanRootsFile: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := cfg.ScanRoots(); err == nil {
		t.Error("ScanRoots() with missing file: expected error, got nil")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg = Config{ScanRootsFile: bad}
	if _, err := cfg.ScanRoots(); err == nil {
		t.Error("ScanRoots() with malformed file: expected error, got nil")
	}
}

func TestScanRootsNoneConfigured(t *testing.T) {
	cfg := Config{AppRoot: "/app"}
	if _, err := cfg.ScanRoots(); err == nil {
		t.Error("ScanRoots() with nothing configured: expected error, got nil")
	}
}
