package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/photomap/photomapbackend/scanner"
)

// ScanController is the narrow interface the HTTP layer needs from the scan
// orchestrator: trigger a run, read the run-state
type ScanController interface {
	Trigger() error
	Status() scanner.Status
}

// ScanHandler exposes the trigger and status endpoints
type ScanHandler struct {
	Scanner ScanController
}

// TriggerScan starts a run now. the response is only ever "started" or a
// conflict: the run is asynchronous and per-file errors never surface here
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if err := h.Scanner.Trigger(); err != nil {
		if errors.Is(err, scanner.ErrScanInProgress) {
			WriteAPIError(w, http.StatusConflict, "scan_in_progress", "a scan is already running")
			return
		}
		log.Printf("handlers: failed to trigger scan: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "scan_trigger_failed", "could not start scan")
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// ScanStatus reports the live run-state snapshot, non-blocking
func (h *ScanHandler) ScanStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Scanner.Status())
}
