package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultThumbnailsSubDir = "thumbnails"
)

const (
	defaultScanIntervalMinutes   = 5
	defaultThumbnailSize         = 300
	defaultExiftoolTimeoutSecond = 20
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for generated assets
	ThumbnailsPath   string // full-calculated path for thumbnails

	// scan root configuration; roots themselves are re-read per run via
	// ScanRoots, these only record where they come from
	ScanRootsEnv  string
	ScanRootsFile string
	AppRoot       string // relative roots resolve against this

	// periodic scan settings
	ScanInterval time.Duration

	// exiftool invocation settings
	ExiftoolPath    string
	ExiftoolTimeout time.Duration

	// thumbnail generation settings
	ThumbnailSize int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	appRoot, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to determine working directory: %w", err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "photos.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absMediaStorage, thumbSubDir)

	cfg := Config{
		DatabasePath:     dbPath,
		MediaStoragePath: absMediaStorage,
		ThumbnailsPath:   absThumbnailsPath,
		ScanRootsEnv:     os.Getenv("SCAN_ROOTS"),
		ScanRootsFile:    os.Getenv("SCAN_ROOTS_FILE"),
		AppRoot:          appRoot,
		ScanInterval:     time.Duration(getEnvIntOrDefault("SCAN_INTERVAL_MINUTES", defaultScanIntervalMinutes)) * time.Minute,
		ExiftoolPath:     getEnvOrDefault("EXIFTOOL_PATH", "exiftool"),
		ExiftoolTimeout:  time.Duration(getEnvIntOrDefault("EXIFTOOL_TIMEOUT_SECONDS", defaultExiftoolTimeoutSecond)) * time.Second,
		ThumbnailSize:    getEnvIntOrDefault("THUMBNAIL_SIZE", defaultThumbnailSize),
	}

	return cfg, nil
}

// ScanRoots returns the current ordered list of scan root directories. it is
// called at the start of every scan run rather than once at startup: the
// roots file is owned externally and may change between runs
func (c Config) ScanRoots() ([]string, error) {
	var roots []string

	if c.ScanRootsFile != "" {
		data, err := os.ReadFile(c.ScanRootsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read scan roots file '%s': %w", c.ScanRootsFile, err)
		}
		if err := json.Unmarshal(data, &roots); err != nil {
			return nil, fmt.Errorf("failed to parse scan roots file '%s': %w", c.ScanRootsFile, err)
		}
	} else if c.ScanRootsEnv != "" {
		for _, r := range strings.Split(c.ScanRootsEnv, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				roots = append(roots, r)
			}
		}
	}

	if len(roots) == 0 {
		return nil, fmt.Errorf("no scan roots configured (set SCAN_ROOTS or SCAN_ROOTS_FILE)")
	}

	resolved := make([]string, 0, len(roots))
	for _, r := range roots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(c.AppRoot, r)
		}
		resolved = append(resolved, filepath.Clean(r))
	}
	return resolved, nil
}
