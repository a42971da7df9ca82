package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan metrics
var (
	ScanRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photomap_scan_running",
			Help: "Whether an ingestion run is currently active (1 or 0)",
		},
	)

	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_scan_runs_total",
			Help: "Total number of ingestion runs started",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photomap_scan_duration_seconds",
			Help:    "Duration of complete ingestion runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 4, 9),
		},
	)
)

// Pipeline metrics
var (
	FilesProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_files_processed_total",
			Help: "Total number of new files ingested into the index",
		},
	)

	FilesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_files_skipped_total",
			Help: "Total number of candidate files skipped because they were already indexed",
		},
	)

	ThumbnailsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_thumbnails_generated_total",
			Help: "Total number of thumbnails generated",
		},
	)

	MetadataErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_metadata_errors_total",
			Help: "Total number of metadata extraction failures (soft failures)",
		},
	)

	ThumbnailErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_thumbnail_errors_total",
			Help: "Total number of thumbnail generation failures (soft failures)",
		},
	)

	StorageErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photomap_storage_errors_total",
			Help: "Total number of photo index insert failures",
		},
	)
)
