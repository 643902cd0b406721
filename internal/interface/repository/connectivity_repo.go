package repository

import (
	"context"
	"net/http"
	"time"

	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/pkg/logger"
)

// ProbeConnectivityRepository implements the ConnectivityChecker interface
// by issuing a cheap request against a probe URL. Any HTTP response counts
// as connected; only transport failures report offline.
type ProbeConnectivityRepository struct {
	logger   logger.Logger
	probeURL string
	client   *http.Client
}

// NewProbeConnectivityRepository creates a new connectivity checker
func NewProbeConnectivityRepository(probeURL string, timeout time.Duration, logger logger.Logger) repository.ConnectivityChecker {
	return &ProbeConnectivityRepository{
		logger:   logger,
		probeURL: probeURL,
		client:   &http.Client{Timeout: timeout},
	}
}

// IsConnected reports whether the probe URL is reachable
func (r *ProbeConnectivityRepository) IsConnected(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("Connectivity probe failed", "url", r.probeURL, "error", err)
		return false
	}
	resp.Body.Close()
	return true
}
