package media

import (
	"fmt"

	"github.com/davidbyttow/govips/v2/vips"
)

// Normalize converts HEIF-family buffers into JPEG at maximum quality so the
// rest of the pipeline only deals with standard raster formats. buffers in
// any other recognized format pass through unchanged
func Normalize(data []byte, filename string) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize: empty input buffer for %s", filename)
	}
	if !IsHeif(filename) {
		return data, nil
	}
	if !vipsReady() {
		return nil, fmt.Errorf("normalize: libvips not initialized, cannot convert %s", filename)
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("normalize: failed to decode %s: %w", filename, err)
	}
	defer ref.Close()

	params := vips.NewJpegExportParams()
	params.Quality = 100
	out, _, err := ref.ExportJpeg(params)
	if err != nil {
		return nil, fmt.Errorf("normalize: failed to encode %s as JPEG: %w", filename, err)
	}
	return out, nil
}
