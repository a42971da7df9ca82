package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/photomap/photomapbackend/models"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// Insert creates the row unless the path is already indexed. a duplicate
// path is a no-op, never an error, so repeated or racing runs cannot abort
// on the unique constraint
func (r *PhotoRepository) Insert(photo *models.Photo) error {
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoNothing: true,
	}).Create(photo)
	if result.Error != nil {
		return fmt.Errorf("failed to insert photo for %s: %w", photo.Path, result.Error)
	}
	return nil
}

// PathExists reports whether a path is already present in the index. this is
// the dominant skip check of the ingestion pipeline
func (r *PhotoRepository) PathExists(path string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Photo{}).Where("path = ?", path).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existence of %s: %w", path, err)
	}
	return count > 0, nil
}

// GetByID retrieves a photo by its surrogate id
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by id %d: %w", id, err)
	}
	return &photo, nil
}

// GetByPath retrieves a photo by its absolute source path
func (r *PhotoRepository) GetByPath(path string) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Where("path = ?", path).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by path %s: %w", path, err)
	}
	return &photo, nil
}

// Count returns the total number of indexed photos
func (r *PhotoRepository) Count() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Photo{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

// UpdateLocation applies a manual geolocation correction to an existing row,
// independent of any scan run. has_gps flips to true as part of the same
// update so the invariant holds
func (r *PhotoRepository) UpdateLocation(id uint, latitude, longitude float64) error {
	updates := map[string]interface{}{
		"latitude":  latitude,
		"longitude": longitude,
		"has_gps":   true,
	}
	result := r.DB.Model(&models.Photo{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update location for photo %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
