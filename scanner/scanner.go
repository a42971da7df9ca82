package scanner

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/photomap/photomapbackend/media"
	"github.com/photomap/photomapbackend/metrics"
	"github.com/photomap/photomapbackend/models"
	"github.com/photomap/photomapbackend/repository"
)

// ErrScanInProgress is returned by Trigger while a run is already active.
// timer ticks drop it silently; explicit callers get told about the conflict
var ErrScanInProgress = errors.New("a scan is already in progress")

// RootsProvider returns the current ordered list of scan root directories.
// it is invoked fresh at the start of every run, never cached across runs
type RootsProvider func() ([]string, error)

// MetadataExtractor yields geolocation and capture time for one file path.
// implementations must soft-fail: an empty Metadata, never an error
type MetadataExtractor interface {
	Extract(ctx context.Context, path string) media.Metadata
}

// NormalizeFunc converts proprietary formats into a standard raster buffer
type NormalizeFunc func(data []byte, filename string) ([]byte, error)

// Thumbnailer produces and persists a thumbnail from a normalized buffer,
// returning its store-relative path
type Thumbnailer interface {
	GenerateThumbnail(data []byte, originalName string) (string, error)
}

// Status is a consistent snapshot of the scan run-state, readable at any
// time without blocking an active run
type Status struct {
	Running         bool       `json:"running"`
	LastCompletedAt *time.Time `json:"last_completed_at"`
	TotalCandidates int        `json:"total_candidates"`
	ProcessedCount  int        `json:"processed_count"`
}

// Scanner drives the ingestion pipeline: enumerate candidates across all
// roots, skip already-indexed paths, extract metadata, conditionally
// thumbnail, insert. at most one run is active at any time; the periodic
// timer and explicit triggers compete for the same slot
type Scanner struct {
	repo      repository.PhotoRepositoryInterface
	roots     RootsProvider
	extractor MetadataExtractor
	normalize NormalizeFunc
	thumbs    Thumbnailer
	interval  time.Duration

	mu              sync.Mutex
	running         bool
	lastCompletedAt *time.Time
	totalCandidates int
	processedCount  int

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(
	repo repository.PhotoRepositoryInterface,
	roots RootsProvider,
	extractor MetadataExtractor,
	normalize NormalizeFunc,
	thumbs Thumbnailer,
	interval time.Duration,
) *Scanner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scanner{
		repo:      repo,
		roots:     roots,
		extractor: extractor,
		normalize: normalize,
		thumbs:    thumbs,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the periodic scan loop. a tick that collides with an active
// run is dropped, it must not queue a second run behind the first
func (s *Scanner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.runScan(); err != nil {
					if errors.Is(err, ErrScanInProgress) {
						log.Println("scanner: periodic scan skipped, previous run still active")
					} else {
						log.Printf("scanner: periodic scan failed: %v", err)
					}
				}
			case <-s.stopChan:
				log.Println("scanner: periodic scan loop stopped")
				return
			}
		}
	}()
}

// Stop ends the periodic loop and waits for any in-flight run to finish its
// current file, so shutdown never interrupts a write mid-flight
func (s *Scanner) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

// Trigger starts a run immediately and asynchronously. the caller only
// learns whether the run started or a previous one is still active;
// per-file outcomes are never propagated back
func (s *Scanner) Trigger() error {
	if !s.tryStart() {
		return ErrScanInProgress
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()
	return nil
}

// Status returns a consistent snapshot of the run-state
func (s *Scanner) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:         s.running,
		LastCompletedAt: s.lastCompletedAt,
		TotalCandidates: s.totalCandidates,
		ProcessedCount:  s.processedCount,
	}
}

// runScan is the synchronous entry used by the periodic loop
func (s *Scanner) runScan() error {
	if !s.tryStart() {
		return ErrScanInProgress
	}
	s.run()
	return nil
}

// tryStart atomically claims the single run slot and resets the counters
// for a fresh run
func (s *Scanner) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.totalCandidates = 0
	s.processedCount = 0
	return true
}

// run executes one full run. the caller must have claimed the run slot via
// tryStart. the deferred cleanup is unconditional: a stuck running flag
// would block every future run, so the state settles back to idle no matter
// how the run body exits
func (s *Scanner) run() {
	start := time.Now()
	metrics.ScanRunning.Set(1)
	metrics.ScanRunsTotal.Inc()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("scanner: run aborted by internal error: %v", r)
		}
		now := time.Now()
		s.mu.Lock()
		s.running = false
		s.lastCompletedAt = &now
		s.mu.Unlock()
		metrics.ScanRunning.Set(0)
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	roots, err := s.roots()
	if err != nil {
		log.Printf("scanner: cannot determine scan roots, ending run: %v", err)
		return
	}

	// first pass: enumerate everything so progress has a stable denominator
	// before the first file is processed
	var candidates []string
	for _, root := range roots {
		files := EnumerateImages(root)
		log.Printf("scanner: discovered %d candidate file(s) under %s", len(files), root)
		candidates = append(candidates, files...)
	}

	s.mu.Lock()
	s.totalCandidates = len(candidates)
	s.mu.Unlock()

	log.Printf("scanner: starting run over %d root(s), %d candidate file(s)", len(roots), len(candidates))

	for _, path := range candidates {
		select {
		case <-s.stopChan:
			log.Println("scanner: run interrupted by shutdown")
			return
		default:
		}

		s.processFile(path)

		// a processed file is "processed" even when it yielded no usable
		// data, the counter tracks pipeline progress, not success
		s.mu.Lock()
		s.processedCount++
		s.mu.Unlock()
	}

	log.Printf("scanner: run complete, processed %d file(s) in %v", len(candidates), time.Since(start))
}

// processFile ingests one candidate. every failure here is soft: the row is
// inserted with whatever was obtained, and one bad file never affects the
// next one
func (s *Scanner) processFile(path string) {
	exists, err := s.repo.PathExists(path)
	if err != nil {
		log.Printf("scanner: existence check failed for %s: %v", path, err)
		return
	}
	if exists {
		// already indexed: never re-read, re-extracted or re-thumbnailed,
		// even if the on-disk content changed
		metrics.FilesSkippedTotal.Inc()
		return
	}

	meta := s.extractor.Extract(context.Background(), path)

	photo := models.Photo{
		Path:     path,
		Filename: filepath.Base(path),
		TakenAt:  meta.TakenAt,
	}

	if meta.HasGPS() {
		photo.Latitude = meta.Latitude
		photo.Longitude = meta.Longitude
		photo.HasGPS = true

		// thumbnail generation dominates run cost, so it only happens for
		// geolocated photos
		thumbPath, err := s.makeThumbnail(path)
		if err != nil {
			// the coordinates are independently valid, keep them; the row
			// simply has no thumbnail and serving falls back to the original
			log.Printf("scanner: thumbnail unavailable for %s: %v", path, err)
			metrics.ThumbnailErrorsTotal.Inc()
		} else {
			photo.ThumbnailPath = &thumbPath
			metrics.ThumbnailsGeneratedTotal.Inc()
		}
	}

	if err := s.repo.Insert(&photo); err != nil {
		// the path was never marked indexed, so the next run retries it
		log.Printf("scanner: failed to insert photo row for %s: %v", path, err)
		metrics.StorageErrorsTotal.Inc()
		return
	}
	metrics.FilesProcessedTotal.Inc()
}

// makeThumbnail reads, normalizes and thumbnails one source file
func (s *Scanner) makeThumbnail(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	normalized, err := s.normalize(data, path)
	if err != nil {
		return "", err
	}
	return s.thumbs.GenerateThumbnail(normalized, filepath.Base(path))
}
