package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/photomap/photomapbackend/metrics"
)

const exiftoolDateLayout = "2006:01:02 15:04:05"

// Extractor invokes an external exiftool process to read geolocation and
// capture-time metadata for one file. the subprocess boundary is untrusted:
// a missing binary, timeout, non-zero exit or malformed output all degrade
// uniformly to empty metadata, and the scan treats the file as ungeolocated
type Extractor struct {
	BinaryPath string
	Timeout    time.Duration
}

func NewExtractor(binaryPath string, timeout time.Duration) *Extractor {
	if binaryPath == "" {
		binaryPath = "exiftool"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Extractor{BinaryPath: binaryPath, Timeout: timeout}
}

// Extract runs exiftool against a single file path. it never returns an
// error: failures are logged and yield empty metadata
func (e *Extractor) Extract(ctx context.Context, path string) Metadata {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	// -n keeps GPS coordinates as signed decimal degrees instead of
	// hemisphere-annotated strings
	cmd := exec.CommandContext(ctx, e.BinaryPath, "-json", "-n", path)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		log.Printf("exiftool: invocation failed for %s: %v", path, err)
		metrics.MetadataErrorsTotal.Inc()
		return Metadata{}
	}

	meta, err := parseExiftoolOutput(out.Bytes())
	if err != nil {
		log.Printf("exiftool: unparsable output for %s: %v", path, err)
		metrics.MetadataErrorsTotal.Inc()
		return Metadata{}
	}
	return meta
}

// parseExiftoolOutput maps exiftool's -json array output onto Metadata.
// geolocation is taken only when both coordinate fields are present
func parseExiftoolOutput(data []byte) (Metadata, error) {
	var parsed []map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Metadata{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(parsed) == 0 {
		return Metadata{}, fmt.Errorf("empty result array")
	}
	fields := parsed[0]

	var meta Metadata
	lat, latOK := numericField(fields, "GPSLatitude")
	lng, lngOK := numericField(fields, "GPSLongitude")
	if latOK && lngOK {
		meta.Latitude = &lat
		meta.Longitude = &lng
	}

	// prefer the original capture field, fall back to the creation date
	if s, ok := fields["DateTimeOriginal"].(string); ok {
		meta.TakenAt = parseExiftoolDate(s)
	}
	if meta.TakenAt == nil {
		if s, ok := fields["CreateDate"].(string); ok {
			meta.TakenAt = parseExiftoolDate(s)
		}
	}

	return meta, nil
}

// numericField reads a JSON number, tolerating the string encoding some
// exiftool builds emit even with -n
func numericField(fields map[string]interface{}, key string) (float64, bool) {
	switch v := fields[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}

// parseExiftoolDate normalizes exiftool's colon-separated date format
// (2006:01:02 15:04:05, optionally with subseconds and/or a zone offset)
// into a time.Time. returns nil when the value is not a valid calendar
// instant, including the all-zero placeholder some cameras write
func parseExiftoolDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000") {
		return nil
	}

	layouts := []string{
		exiftoolDateLayout,
		"2006:01:02 15:04:05-07:00",
		"2006:01:02 15:04:05Z",
		"2006:01:02 15:04:05.00",
		"2006:01:02 15:04:05.000",
		"2006:01:02 15:04:05.00-07:00",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
