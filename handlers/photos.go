package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/photomap/photomapbackend/repository"
)

const (
	defaultPhotoPageSize = 500
	maxPhotoPageSize     = 1000
)

// PhotoHandler serves the photo index to the map UI and accepts manual
// location corrections
type PhotoHandler struct {
	Repo repository.PhotoRepositoryInterface
}

// ListPhotos returns indexed photos, filtered by the query string:
// has_gps, min_lat/max_lat/min_lng/max_lng, taken_after/taken_before
// (RFC 3339), limit, offset
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := repository.PhotoListOptions{Limit: defaultPhotoPageSize}

	var err error
	if opts.HasGPS, err = boolParam(q.Get("has_gps")); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", "has_gps must be true or false")
		return
	}
	bounds := []struct {
		name string
		dst  **float64
	}{
		{"min_lat", &opts.MinLat},
		{"max_lat", &opts.MaxLat},
		{"min_lng", &opts.MinLng},
		{"max_lng", &opts.MaxLng},
	}
	for _, b := range bounds {
		if *b.dst, err = floatParam(q.Get(b.name)); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", b.name+" must be a decimal number")
			return
		}
	}
	if opts.TakenAfter, err = timeParam(q.Get("taken_after")); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", "taken_after must be an RFC 3339 timestamp")
		return
	}
	if opts.TakenBefore, err = timeParam(q.Get("taken_before")); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", "taken_before must be an RFC 3339 timestamp")
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", "limit must be a positive integer")
			return
		}
		if n > maxPhotoPageSize {
			n = maxPhotoPageSize
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_parameter", "offset must be a non-negative integer")
			return
		}
		opts.Offset = n
	}

	photos, err := h.Repo.List(opts)
	if err != nil {
		log.Printf("handlers: failed to list photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "photo_list_failed", "could not list photos")
		return
	}
	WriteJSON(w, http.StatusOK, photos)
}

// GetPhoto returns a single indexed photo by id
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := photoIDParam(w, r)
	if !ok {
		return
	}

	photo, err := h.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "photo_not_found", "no photo with that id")
			return
		}
		log.Printf("handlers: failed to get photo %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "photo_get_failed", "could not load photo")
		return
	}
	WriteJSON(w, http.StatusOK, photo)
}

type updateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// UpdatePhotoLocation applies a manual geolocation correction, independent
// of any scan run. the row ends up with has_gps set
func (h *PhotoHandler) UpdatePhotoLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := photoIDParam(w, r)
	if !ok {
		return
	}

	var req updateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with latitude and longitude")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "both latitude and longitude are required")
		return
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_coordinates", "latitude must be in [-90,90] and longitude in [-180,180]")
		return
	}

	if err := h.Repo.UpdateLocation(id, *req.Latitude, *req.Longitude); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "photo_not_found", "no photo with that id")
			return
		}
		log.Printf("handlers: failed to update location for photo %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "photo_update_failed", "could not update photo location")
		return
	}

	photo, err := h.Repo.GetByID(id)
	if err != nil {
		log.Printf("handlers: failed to reload photo %d after update: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "photo_get_failed", "could not load updated photo")
		return
	}
	WriteJSON(w, http.StatusOK, photo)
}

func photoIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "photo_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_photo_id", "photo_id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func boolParam(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func floatParam(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func timeParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
