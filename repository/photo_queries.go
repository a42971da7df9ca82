package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/photomap/photomapbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// PhotoListOptions carries the dynamic filters for photo listing queries.
// nil pointers mean "no filter on this dimension"
type PhotoListOptions struct {
	HasGPS      *bool
	MinLat      *float64
	MaxLat      *float64
	MinLng      *float64
	MaxLng      *float64
	TakenAfter  *time.Time
	TakenBefore *time.Time
	Limit       int
	Offset      int
}

// List runs a filtered listing against the photos table. the query is built
// with squirrel over the raw connection because the filter combinations are
// dynamic and the listing is the map UI's hot read path
func (r *PhotoRepository) List(opts PhotoListOptions) ([]models.Photo, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	queryBuilder := psql.Select(
		"id", "path", "filename", "latitude", "longitude",
		"taken_at", "has_gps", "thumbnail_path", "created_at",
	).From("photos")

	if opts.HasGPS != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"has_gps": *opts.HasGPS})
	}
	if opts.MinLat != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"latitude": *opts.MinLat})
	}
	if opts.MaxLat != nil {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"latitude": *opts.MaxLat})
	}
	if opts.MinLng != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"longitude": *opts.MinLng})
	}
	if opts.MaxLng != nil {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"longitude": *opts.MaxLng})
	}
	if opts.TakenAfter != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"taken_at": *opts.TakenAfter})
	}
	if opts.TakenBefore != nil {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"taken_at": *opts.TakenBefore})
	}

	queryBuilder = queryBuilder.OrderBy("id ASC")
	if opts.Limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		queryBuilder = queryBuilder.Offset(uint64(opts.Offset))
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for List: %w", err)
	}

	rows, err := sqlDB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(
			&p.ID, &p.Path, &p.Filename, &p.Latitude, &p.Longitude,
			&p.TakenAt, &p.HasGPS, &p.ThumbnailPath, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating photo rows: %w", err)
	}
	return photos, nil
}
