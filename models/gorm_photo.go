package models

import "time"

// Photo represents one source file ever seen by the index using GORM.
// It corresponds to the 'photos' table. Rows are created once by the scan
// pipeline and never deleted by it; only the location can be corrected later.
type Photo struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Path     string `gorm:"uniqueIndex;not null" json:"path"` // absolute source path
	Filename string `gorm:"not null" json:"filename"`

	Latitude  *float64   `gorm:"" json:"latitude,omitempty"`  // Nullable, decimal degrees
	Longitude *float64   `gorm:"" json:"longitude,omitempty"` // Nullable, decimal degrees
	TakenAt   *time.Time `gorm:"" json:"taken_at,omitempty"`  // Nullable, capture instant

	// HasGPS is true iff both coordinates are set; indexed because most
	// queries split on it
	HasGPS bool `gorm:"column:has_gps;index;not null;default:false" json:"has_gps"`

	ThumbnailPath *string `gorm:"" json:"thumbnail_path,omitempty"` // Nullable, filename within the thumbnail store

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}

// HasLocation reports whether both coordinates are present.
func (p *Photo) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}
