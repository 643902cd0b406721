package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"harvestsync-service/internal/usecase"
	"harvestsync-service/pkg/logger"
)

// SyncRouter exposes the sync subsystem over HTTP: trigger a run, inspect
// its progress and serve health plus metrics
type SyncRouter struct {
	runner *usecase.SyncRunner
	logger logger.Logger
}

// NewSyncRouter creates a new sync router
func NewSyncRouter(runner *usecase.SyncRunner, logger logger.Logger) *SyncRouter {
	return &SyncRouter{
		runner: runner,
		logger: logger,
	}
}

// Handler builds the route table
func (s *SyncRouter) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/v1/sync", s.handleSync).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/sync/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *SyncRouter) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.runner.Run(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrSyncInProgress) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error": "a sync run is already in progress",
			})
			return
		}

		var syncErr *usecase.SyncError
		if errors.As(err, &syncErr) {
			writeJSON(w, statusFor(syncErr.Code), map[string]string{
				"code":  syncErr.Code,
				"error": syncErr.Message,
			})
			return
		}

		s.logger.Error("Sync handler failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"code":  usecase.CodeUnknown,
			"error": "sync failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *SyncRouter) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Status(r.Context()))
}

func (s *SyncRouter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// statusFor maps a sync error code to the HTTP status the trigger endpoint
// answers with
func statusFor(code string) int {
	switch code {
	case usecase.CodeOffline:
		return http.StatusServiceUnavailable
	case usecase.CodeUnauthenticated, usecase.CodeCorruptedAuth, usecase.CodeSessionExpired:
		return http.StatusUnauthorized
	case usecase.CodeVendorMissing:
		return http.StatusUnprocessableEntity
	case usecase.CodeAPIError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
