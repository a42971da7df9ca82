package media

import (
	"path/filepath"
	"strings"

	// decoders registered for the thumbnail pipeline
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".heic": true, ".heif": true, ".heics": true, ".heifs": true,
	".tiff": true, ".tif": true, ".bmp": true,
}

// heifExtensions covers the HEIF container family, including the image
// sequence variants, all of which need conversion before resizing
var heifExtensions = map[string]bool{
	".heic": true, ".heif": true, ".heics": true, ".heifs": true,
}

// IsSupportedImage checks if the filename has a recognized image extension
func IsSupportedImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// IsHeif checks if the filename is a HEIF-family container
func IsHeif(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return heifExtensions[ext]
}
