// media/types.go
package media

import "time"

type AssetType string

const (
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeOriginal  AssetType = "original"
	AssetTypeUnknown   AssetType = "unknown"
)

// Metadata holds the facts the extractor can recover for a single file.
// Latitude and Longitude are either both set or both nil
type Metadata struct {
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
}

// HasGPS reports whether the metadata carries a usable geolocation pair
func (m Metadata) HasGPS() bool {
	return m.Latitude != nil && m.Longitude != nil
}
