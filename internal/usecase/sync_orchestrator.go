package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/internal/infrastructure/config"
	"harvestsync-service/pkg/identity"
	"harvestsync-service/pkg/logger"
	"harvestsync-service/pkg/metrics"
	"harvestsync-service/pkg/numeric"
)

// Status labels reported during a run. The progress callback receives these
// verbatim so a UI can show them directly.
const (
	StatusCheckingConnection = "Checking connection..."
	StatusOffline            = "No internet connection"
	StatusNotAuthenticated   = "User not authenticated"
	StatusCorruptedAuth      = "Stored user data is invalid"
	StatusSessionExpired     = "Session expired. Sign in again."
	StatusVendorMissing      = "Vendor id not found"
	StatusProducers          = "Syncing producers..."
	StatusProperties         = "Syncing uncarded properties..."
	StatusPlots              = "Syncing plots..."
	StatusSeasons            = "Syncing seasons..."
	StatusSeasonPhases       = "Syncing season phases..."
	StatusPreparing          = "Preparing forecasts for sync..."
	StatusUploading          = "Syncing yield forecasts..."
	StatusDone               = "Everything synced"
)

// Orchestrator drives one full synchronization pass: connectivity check,
// session validation, reference data refresh, local record normalization and
// forecast upload. Every failure carries one of the stable sync error codes.
type Orchestrator struct {
	store            repository.KeyValueStore
	api              repository.APIClient
	network          repository.ConnectivityChecker
	endpoints        config.Endpoints
	builder          *PayloadBuilder
	logger           logger.Logger
	metrics          *metrics.Metrics
	validate         *validator.Validate
	onSessionExpired func()
	now              func() time.Time
}

// NewOrchestrator creates a new sync orchestrator. metrics and
// onSessionExpired may be nil.
func NewOrchestrator(
	store repository.KeyValueStore,
	api repository.APIClient,
	network repository.ConnectivityChecker,
	endpoints config.Endpoints,
	log logger.Logger,
	m *metrics.Metrics,
	onSessionExpired func(),
) *Orchestrator {
	return &Orchestrator{
		store:            store,
		api:              api,
		network:          network,
		endpoints:        endpoints,
		builder:          NewPayloadBuilder(log),
		logger:           log,
		metrics:          m,
		validate:         validator.New(),
		onSessionExpired: onSessionExpired,
		now:              time.Now,
	}
}

type session struct {
	user     map[string]interface{}
	vendorID string
}

// Sync runs one synchronization pass. onStatus, when non-nil, receives the
// progress labels in order. The returned result is non-nil only on success.
func (o *Orchestrator) Sync(ctx context.Context, onStatus func(string)) (*entity.SyncResult, error) {
	report := func(label string) {
		if onStatus != nil {
			onStatus(label)
		}
	}

	if o.metrics != nil {
		o.metrics.SyncRuns.Inc()
	}
	started := o.now()

	result, err := o.run(ctx, report)
	if err != nil {
		mapped := o.mapError(ctx, err, report)
		if o.metrics != nil {
			o.metrics.ErrorsCount.WithLabelValues(mapped.Code).Inc()
		}
		o.logger.Error("Sync run failed", "code", mapped.Code, "error", mapped)
		return nil, mapped
	}

	if o.metrics != nil {
		o.metrics.SyncDuration.Observe(o.now().Sub(started).Seconds())
	}
	report(StatusDone)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, report func(string)) (*entity.SyncResult, error) {
	report(StatusCheckingConnection)
	if !o.network.IsConnected(ctx) {
		report(StatusOffline)
		return nil, newSyncError(CodeOffline, "no internet connection")
	}

	sess, err := o.loadSession(ctx, report)
	if err != nil {
		return nil, err
	}

	result := &entity.SyncResult{}

	report(StatusProducers)
	result.ProducerCount, err = o.fetchAndCache(ctx, o.endpoints.ProducersURL(sess.vendorID), repository.KeyPendingProducers)
	if err != nil {
		return nil, err
	}

	report(StatusProperties)
	result.PropertyCount, err = o.fetchAndCache(ctx, o.endpoints.PropertiesURL(), repository.KeyPendingProperties)
	if err != nil {
		return nil, err
	}

	report(StatusPlots)
	result.PlotCount, err = o.fetchAndCache(ctx, o.endpoints.PlotsURL(sess.vendorID), repository.KeyPendingPlots)
	if err != nil {
		return nil, err
	}

	report(StatusSeasons)
	if _, err = o.fetchAndCache(ctx, o.endpoints.SeasonListURL(), repository.KeyPendingSeasonList); err != nil {
		return nil, err
	}

	report(StatusSeasonPhases)
	if _, err = o.fetchAndCache(ctx, o.endpoints.SeasonPhasesURL(), repository.KeyPendingSeasonPhases); err != nil {
		return nil, err
	}

	report(StatusPreparing)
	records, err := o.collectRecords(ctx)
	if err != nil {
		return nil, err
	}

	pending := pendingOf(records)
	if len(pending) > 0 {
		report(StatusUploading)
		synced, payloads, uploadErr := o.uploadPending(ctx, records, pending, sess)
		result.DebugPayloads = payloads
		if synced > 0 {
			if o.metrics != nil {
				o.metrics.RecordsSynced.Add(float64(synced))
			}
			// re-read so the counts reflect what was committed
			if records, err = o.collectRecords(ctx); err != nil {
				return nil, err
			}
		}
		if uploadErr != nil {
			return nil, uploadErr
		}
		result.SyncedCount = synced
	}
	result.PendingCount = len(pendingOf(records))

	result.Timestamp = o.now().UTC().Format(time.RFC3339)
	if err := o.store.Set(ctx, repository.KeyLastSyncAt, result.Timestamp); err != nil {
		return nil, err
	}

	return result, nil
}

// loadSession validates the stored credentials before any network traffic.
// Missing token or user means unauthenticated; a user blob that will not
// parse means corrupted auth; a parsed user without a vendor id cannot
// address the vendor-scoped endpoints.
func (o *Orchestrator) loadSession(ctx context.Context, report func(string)) (*session, error) {
	token, found, err := o.store.Get(ctx, repository.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	if !found || strings.TrimSpace(token) == "" {
		report(StatusNotAuthenticated)
		return nil, newSyncError(CodeUnauthenticated, "no access token stored")
	}

	rawUser, found, err := o.store.Get(ctx, repository.KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if !found || strings.TrimSpace(rawUser) == "" {
		report(StatusNotAuthenticated)
		return nil, newSyncError(CodeUnauthenticated, "no user stored")
	}

	var user map[string]interface{}
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user == nil {
		report(StatusCorruptedAuth)
		return nil, &SyncError{Code: CodeCorruptedAuth, Message: "stored user is not valid JSON", Cause: err}
	}

	vendorID := vendorIDOf(user)
	if vendorID == "" {
		report(StatusVendorMissing)
		return nil, newSyncError(CodeVendorMissing, "user has no vendor id")
	}

	return &session{user: user, vendorID: vendorID}, nil
}

// vendorIDOf pulls the vendor id out of the user blob, tolerating numeric
// and string encodings
func vendorIDOf(user map[string]interface{}) string {
	for _, key := range []string{"vendorId", "idVendor", "vendorCode", "sellerId"} {
		v, ok := user[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := numeric.ParseNumber(v); ok && n != 0 {
			return identity.Stringify(n)
		}
		if s := strings.TrimSpace(identity.Stringify(v)); s != "" && s != "0" {
			return s
		}
	}
	return ""
}

// fetchAndCache pulls one reference resource and stores the raw body
// verbatim, so the cached shape is exactly what the backend sent. The count
// is nil when the body is not a JSON array.
func (o *Orchestrator) fetchAndCache(ctx context.Context, url, key string) (*int, error) {
	body, err := o.api.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := o.store.Set(ctx, key, string(body)); err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		o.logger.Warn("Reference resource is not an array", "key", key)
		return nil, nil
	}
	count := len(items)
	return &count, nil
}

// collectRecords loads the local forecast records, normalizes the unsynced
// ones and persists the set back only when normalization changed something.
// An absent or corrupt store value degrades to an empty set.
func (o *Orchestrator) collectRecords(ctx context.Context) ([]entity.ForecastRecord, error) {
	raw, found, err := o.store.Get(ctx, repository.KeyForecastRecords)
	if err != nil {
		return nil, err
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var records []entity.ForecastRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		o.logger.Warn("Stored forecast records are corrupt, treating as empty", "error", err)
		return nil, nil
	}

	changed := false
	for i, record := range records {
		normalized, recordChanged := NormalizeForecastRecord(record)
		if recordChanged {
			records[i] = normalized
			changed = true
		}
	}

	if changed {
		if err := o.persistRecords(ctx, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (o *Orchestrator) persistRecords(ctx context.Context, records []entity.ForecastRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return o.store.Set(ctx, repository.KeyForecastRecords, string(data))
}

func pendingOf(records []entity.ForecastRecord) []int {
	var pending []int
	for i, record := range records {
		if !record.Synced {
			pending = append(pending, i)
		}
	}
	return pending
}

// uploadPending posts every pending record. On the first failure the records
// already accepted are committed as synced before the error propagates, so a
// retry resumes where this run stopped.
func (o *Orchestrator) uploadPending(ctx context.Context, records []entity.ForecastRecord, pending []int, sess *session) (int, []entity.RemotePayload, error) {
	pctx := PayloadContext{
		CurrentUser:      sess.user,
		VendorID:         sess.vendorID,
		FallbackProducer: o.loadStoredObject(ctx, repository.KeySelectedProducer),
		FallbackProperty: o.loadStoredObject(ctx, repository.KeySelectedProperty),
	}

	var succeeded []int
	payloads := make([]entity.RemotePayload, 0, len(pending))
	for _, idx := range pending {
		payload := o.builder.Build(records[idx], pctx)
		payloads = append(payloads, payload)

		if err := o.validate.Struct(payload); err != nil {
			o.logger.Error("Payload failed validation", "recordId", records[idx].ID, "error", err)
			commitErr := o.markSynced(ctx, records, succeeded)
			if commitErr != nil {
				o.logger.Error("Failed to commit synced records", "error", commitErr)
			}
			return len(succeeded), payloads, &SyncError{
				Code:    CodeUnknown,
				Message: "forecast payload failed validation",
				Details: records[idx].ID,
				Cause:   err,
			}
		}

		if _, err := o.api.Post(ctx, o.endpoints.ForecastURL(), payload); err != nil {
			commitErr := o.markSynced(ctx, records, succeeded)
			if commitErr != nil {
				o.logger.Error("Failed to commit synced records", "error", commitErr)
			}
			return len(succeeded), payloads, err
		}

		o.logger.Info("Forecast record accepted", "recordId", records[idx].ID)
		succeeded = append(succeeded, idx)
	}

	if err := o.markSynced(ctx, records, succeeded); err != nil {
		return len(succeeded), payloads, err
	}
	return len(succeeded), payloads, nil
}

// markSynced flags the given records as synced and persists the whole set
func (o *Orchestrator) markSynced(ctx context.Context, records []entity.ForecastRecord, indexes []int) error {
	if len(indexes) == 0 {
		return nil
	}
	stamp := o.now().UTC().Format(time.RFC3339)
	for _, idx := range indexes {
		records[idx].Synced = true
		records[idx].SyncedAt = stamp
	}
	return o.persistRecords(ctx, records)
}

func (o *Orchestrator) loadStoredObject(ctx context.Context, key string) map[string]interface{} {
	raw, found, err := o.store.Get(ctx, key)
	if err != nil || !found {
		return nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}
	return obj
}

// mapError folds any failure into a SyncError. A 401 from either backend
// ends the session: the stored credentials are evicted, the session-expired
// hook fires and the run reports session-expired rather than a plain API
// failure.
func (o *Orchestrator) mapError(ctx context.Context, err error, report func(string)) *SyncError {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr
	}

	var apiErr *repository.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			if removeErr := o.store.Remove(ctx, repository.KeyAccessToken, repository.KeyCurrentUser); removeErr != nil {
				o.logger.Error("Failed to evict expired credentials", "error", removeErr)
			}
			if o.onSessionExpired != nil {
				o.onSessionExpired()
			}
			report(StatusSessionExpired)
			return &SyncError{Code: CodeSessionExpired, Message: "session expired", Cause: apiErr}
		}
		return &SyncError{Code: CodeAPIError, Message: apiErr.Message, Cause: apiErr}
	}

	return &SyncError{Code: CodeUnknown, Message: "sync failed", Cause: err}
}
