package entity

// RemotePayload is the exact shape the forecast endpoint accepts for one
// forecast record
type RemotePayload struct {
	ID              string         `json:"id" validate:"required,uuid_rfc4122"`
	UserID          *string        `json:"userId"`
	DateMoved       string         `json:"dateMoved" validate:"required"`
	UserName        string         `json:"userName"`
	StatusCode      float64        `json:"statusCode"`
	AgronomistID    float64        `json:"agronomistId"`
	AgronomistName  string         `json:"agronomistName"`
	PartnerID       interface{}    `json:"partnerId"`
	PartnerName     string         `json:"partnerName"`
	PropertyID      float64        `json:"propertyId"`
	PropertyName    string         `json:"propertyName"`
	SeasonID        float64        `json:"seasonId"`
	SeasonLabel     string         `json:"seasonLabel" validate:"required"`
	Notes           string         `json:"notes"`
	IntegrationCode string         `json:"integrationCode" validate:"required"`
	SeasonPhaseID   *string        `json:"seasonPhaseId"`
	Details         []RemoteDetail `json:"details" validate:"dive"`
}

// RemoteDetail is the per-plot line of a RemotePayload. Its id is freshly
// generated on every build; ForecastID carries the parent payload id.
type RemoteDetail struct {
	ID                string      `json:"id" validate:"required,uuid_rfc4122"`
	CropID            interface{} `json:"cropId"`
	CropName          string      `json:"cropName"`
	ProductionArea    float64     `json:"productionArea"`
	EstimatedQuantity float64     `json:"estimatedQuantity"`
	TechLevel         interface{} `json:"techLevel"`
	ForecastID        string      `json:"forecastId" validate:"required"`
	StartDate         string      `json:"startDate"`
	EndDate           string      `json:"endDate"`
	VarietyID         interface{} `json:"varietyId"`
	VarietyName       string      `json:"varietyName"`
	Notes             string      `json:"notes"`
	StatusCode        interface{} `json:"statusCode"`
	PlotLabel         string      `json:"plotLabel"`
	PlotIdentity      *string     `json:"plotIdentity"`
	CertifiedLimit    float64     `json:"certifiedLimit"`
	LitersPerPlant    float64     `json:"litersPerPlant"`
	YieldPerHectare   float64     `json:"yieldPerHectare"`
	DiscountType      int         `json:"discountType"`
	DiscountValue     float64     `json:"discountValue"`
	NetQuantity       float64     `json:"netQuantity"`
}
