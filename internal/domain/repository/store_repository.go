package repository

import "context"

// Storage keys the sync core reads and writes. The store itself is an opaque
// key/value blob store; every value is a JSON document serialized to string.
const (
	KeyForecastRecords     = "forecastRecords"
	KeyPendingProducers    = "pendingProducers"
	KeyPendingProperties   = "pendingProperties"
	KeyPendingPlots        = "pendingPlots"
	KeyPendingSeasonList   = "pendingSeasonList"
	KeyPendingSeasonPhases = "pendingSeasonPhases"
	KeyLastSyncAt          = "lastSyncAt"
	KeyAccessToken         = "accessToken"
	KeyCurrentUser         = "currentUser"
	KeySelectedProducer    = "selectedProducer"
	KeySelectedProperty    = "selectedProperty"
)

// KeyValueStore defines the interface for the local persistent store. Get
// reports found=false for an absent key; Remove ignores keys that do not
// exist.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}
