package entity

// Entry modes for a plot's production figures
const (
	EntryModeLiters     = "liters"
	EntryModeProduction = "production"
)

// Authoritative production fields, tracked via LastEditedField
const (
	FieldLiters              = "liters"
	FieldEstimatedProduction = "estimatedProduction"
	FieldProductionPerHa     = "productionPerHectare"
)

// Discount types applied to the gross estimated production
const (
	DiscountNone       = 0
	DiscountPercentage = 1
	DiscountPerHectare = 2
)

// ForecastRecord is one season's yield forecast for a property. Producer and
// property are embedded snapshots, not foreign keys: both the remote backend
// and the UI need the denormalized display data.
type ForecastRecord struct {
	ID               string      `json:"id"`
	ForecastID       string      `json:"forecastId"`
	IntegrationCode  string      `json:"integrationCode"`
	RegistrationDate string      `json:"registrationDate"`
	SeasonID         interface{} `json:"seasonId"`
	SeasonLabel      string      `json:"seasonLabel"`
	Status           interface{} `json:"status"`
	Notes            string      `json:"notes"`
	PhaseID          string      `json:"phaseId"`
	PhaseLabel       string      `json:"phaseLabel"`
	CardType         string      `json:"cardType,omitempty"`

	UserName       string      `json:"userName,omitempty"`
	AgronomistID   interface{} `json:"agronomistId,omitempty"`
	AgronomistName string      `json:"agronomistName,omitempty"`

	ProducerName  string                 `json:"producerName"`
	ProducerID    interface{}            `json:"producerId"`
	ProducerTaxID string                 `json:"producerTaxId,omitempty"`
	PartnerID     interface{}            `json:"partnerId,omitempty"`
	PartnerName   string                 `json:"partnerName,omitempty"`
	ProducerRef   map[string]interface{} `json:"producerRef,omitempty"`

	PropertyID   string                 `json:"propertyId"`
	PropertyName string                 `json:"propertyName"`
	PropertyRef  map[string]interface{} `json:"propertyRef,omitempty"`

	Plots []PlotRecord `json:"plots"`

	Synced   bool   `json:"synced"`
	SyncedAt string `json:"syncedAt,omitempty"`
}

// PlotRecord is one field plot's entry inside a forecast. The display
// strings keep whatever separator the user typed; the *Calculated fields
// cache full-precision numerics so repeated recomputation does not
// accumulate rounding error.
type PlotRecord struct {
	ID           string  `json:"id"`
	ForecastID   string  `json:"forecastId"`
	PlotIdentity *string `json:"plotIdentity"`
	Label        string  `json:"label"`
	VarietyName  string  `json:"varietyName,omitempty"`

	Area       string `json:"area"`
	PlantCount string `json:"plantCount"`

	EntryMode       string `json:"entryMode"`
	LastEditedField string `json:"lastEditedField"`

	LitersPerPlant           string `json:"litersPerPlant"`
	GrossEstimatedProduction string `json:"grossEstimatedProduction"`
	EstimatedProduction      string `json:"estimatedProduction"`
	NetEstimatedProduction   string `json:"netEstimatedProduction"`
	ProductionPerHectare     string `json:"productionPerHectare"`
	PerHectareEstimate       string `json:"perHectareEstimate"`

	GrossCalculated     *float64 `json:"grossCalculated"`
	NetCalculated       *float64 `json:"netCalculated"`
	EstimatedCalculated *float64 `json:"estimatedCalculated"`

	DiscountType  int    `json:"discountType"`
	DiscountValue string `json:"discountValue"`

	// History holds prior-season snapshots, read-only to the sync core
	History []map[string]interface{} `json:"history,omitempty"`
	Entered bool                     `json:"entered"`

	// Source is the raw catalog record the plot was loaded from; identity
	// and fallback-area resolution read from it
	Source map[string]interface{} `json:"source,omitempty"`
}

// SyncResult reports the outcome of a wholly or partially successful run.
// Reference counts are nil when the backend returned a non-array shape.
type SyncResult struct {
	ProducerCount *int            `json:"producerCount"`
	PropertyCount *int            `json:"propertyCount"`
	PlotCount     *int            `json:"plotCount"`
	SyncedCount   int             `json:"syncedCount"`
	PendingCount  int             `json:"pendingCount"`
	Timestamp     string          `json:"timestamp"`
	DebugPayloads []RemotePayload `json:"-"`
}
