package repository

import (
	"github.com/photomap/photomapbackend/models"
)

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	Insert(photo *models.Photo) error
	PathExists(path string) (bool, error)
	GetByID(id uint) (*models.Photo, error)
	GetByPath(path string) (*models.Photo, error)
	Count() (int64, error)
	UpdateLocation(id uint, latitude, longitude float64) error
	List(opts PhotoListOptions) ([]models.Photo, error)
}
