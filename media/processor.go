package media

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	ThumbnailJpegQuality   = 90
	ThumbnailFileExtension = ".jpg"

	DefaultThumbnailSize = 300
)

// Processor handles thumbnail generation. it relies on a Store
// implementation for persisting the results.
type Processor struct {
	store Store
	size  int
}

func NewProcessor(store Store, size int) *Processor {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return &Processor{store: store, size: size}
}

// GenerateThumbnail produces a size×size cover-cropped JPEG from a
// normalized image buffer and saves it under a collision-free generated
// name. returns the store-relative path of the saved thumbnail
func (p *Processor) GenerateThumbnail(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image buffer for %s", originalName)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", originalName, err)
	}
	img = applyOrientation(img, exifOrientation(data))

	thumb := imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		defer writer.Close()
		err := imaging.Encode(writer, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbnailJpegQuality))
		if err != nil {
			log.Printf("processor: failed to encode thumbnail for %s: %v", originalName, err)
			writer.CloseWithError(fmt.Errorf("thumbnail encoding failed: %w", err))
		}
	}()

	thumbUUID, err := uuid.NewRandom()
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to generate UUID for thumbnail: %w", err)
	}
	// the uuid guarantees uniqueness across runs, the original base name
	// keeps the file traceable to its source
	targetFilename := thumbUUID.String() + "_" + sanitizeBaseName(originalName) + ThumbnailFileExtension

	savedRelPath, err := p.store.Save(AssetTypeThumbnail, targetFilename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail via store: %w", err)
	}

	log.Printf("processor: generated and saved thumbnail for %s at %s", originalName, savedRelPath)
	return savedRelPath, nil
}

// sanitizeBaseName strips the extension and anything unsafe from the
// original name so it can be embedded in a generated filename
func sanitizeBaseName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	if base == "" {
		base = "photo"
	}
	return base
}
