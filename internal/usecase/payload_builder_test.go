package usecase

import (
	"testing"
	"time"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/pkg/guid"
	"harvestsync-service/pkg/logger"
)

func fixedClockBuilder() *PayloadBuilder {
	b := NewPayloadBuilder(logger.NewNop())
	b.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return b
}

func TestBuildRegeneratesNonGUIDForecastID(t *testing.T) {
	b := fixedClockBuilder()

	payload := b.Build(entity.ForecastRecord{ID: "local-123"}, PayloadContext{})
	if !guid.IsGUID(payload.ID) {
		t.Errorf("payload id %q is not a GUID", payload.ID)
	}
	if payload.IntegrationCode != payload.ID {
		t.Error("integration code must mirror the payload id")
	}
}

func TestBuildKeepsValidIntegrationCode(t *testing.T) {
	b := fixedClockBuilder()
	record := entity.ForecastRecord{
		ID:              "local-123",
		ForecastID:      "local-123",
		IntegrationCode: "9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5f",
	}

	payload := b.Build(record, PayloadContext{})
	if payload.ID != "9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5f" {
		t.Errorf("payload id = %q, want the stored integration code", payload.ID)
	}
}

func TestBuildDefaults(t *testing.T) {
	b := fixedClockBuilder()

	payload := b.Build(entity.ForecastRecord{ID: guid.New()}, PayloadContext{})
	if payload.SeasonID != 13 {
		t.Errorf("season id = %v, want default 13", payload.SeasonID)
	}
	if payload.SeasonLabel != "2025/2026" {
		t.Errorf("season label = %q, want default", payload.SeasonLabel)
	}
	if payload.DateMoved != "2026-03-01T12:00:00Z" {
		t.Errorf("absent date must default to now, got %q", payload.DateMoved)
	}
}

func TestBuildStatusCode(t *testing.T) {
	b := fixedClockBuilder()
	tests := []struct {
		status interface{}
		want   float64
	}{
		{"planned", 0},
		{"In Progress", 1},
		{"completed", 2},
		{"Cancelled", 3},
		{"something else", 0},
		{float64(2), 2},
		// numeric-looking text is still text: only actual numbers pass through
		{"2", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		payload := b.Build(entity.ForecastRecord{ID: guid.New(), Status: tt.status}, PayloadContext{})
		if payload.StatusCode != tt.want {
			t.Errorf("status %v mapped to %v, want %v", tt.status, payload.StatusCode, tt.want)
		}
	}
}

func TestBuildDateFormats(t *testing.T) {
	b := fixedClockBuilder()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date only", "2025-08-15", "2025-08-15T00:00:00Z"},
		{"day first", "15/08/2025", "2025-08-15T00:00:00Z"},
		{"local datetime", "2025-08-15T10:30:00", "2025-08-15T10:30:00Z"},
		{"already iso", "2025-08-15T10:30:00Z", "2025-08-15T10:30:00Z"},
		{"unparseable defaults to now", "next tuesday", "2026-03-01T12:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := b.Build(entity.ForecastRecord{ID: guid.New(), RegistrationDate: tt.in}, PayloadContext{})
			if payload.DateMoved != tt.want {
				t.Errorf("dateMoved = %q, want %q", payload.DateMoved, tt.want)
			}
		})
	}
}

func TestBuildPartnerID(t *testing.T) {
	b := fixedClockBuilder()

	t.Run("numeric producer id passes as number", func(t *testing.T) {
		payload := b.Build(entity.ForecastRecord{
			ID:          guid.New(),
			ProducerRef: map[string]interface{}{"id": float64(4711)},
		}, PayloadContext{})
		if got, ok := payload.PartnerID.(float64); !ok || got != 4711 {
			t.Errorf("partner id = %#v, want float64 4711", payload.PartnerID)
		}
	})

	t.Run("textual code passes as trimmed string", func(t *testing.T) {
		payload := b.Build(entity.ForecastRecord{
			ID:          guid.New(),
			ProducerRef: map[string]interface{}{"id": " PR-77 "},
		}, PayloadContext{})
		if got, ok := payload.PartnerID.(string); !ok || got != "PR-77" {
			t.Errorf("partner id = %#v, want \"PR-77\"", payload.PartnerID)
		}
	})

	t.Run("no producer at all yields zero", func(t *testing.T) {
		payload := b.Build(entity.ForecastRecord{ID: guid.New()}, PayloadContext{})
		if got, ok := payload.PartnerID.(float64); !ok || got != 0 {
			t.Errorf("partner id = %#v, want float64 0", payload.PartnerID)
		}
	})
}

func TestBuildPropertyFallbackChain(t *testing.T) {
	b := fixedClockBuilder()

	t.Run("record snapshot wins", func(t *testing.T) {
		payload := b.Build(entity.ForecastRecord{
			ID:          guid.New(),
			PropertyRef: map[string]interface{}{"id": float64(5), "addressLine": "Road 5"},
		}, PayloadContext{
			FallbackProperty: map[string]interface{}{"id": float64(9), "addressLine": "Road 9"},
		})
		if payload.PropertyID != 5 || payload.PropertyName != "Road 5" {
			t.Errorf("got id=%v name=%q", payload.PropertyID, payload.PropertyName)
		}
	})

	t.Run("context fallback unwraps nested property", func(t *testing.T) {
		payload := b.Build(entity.ForecastRecord{ID: guid.New()}, PayloadContext{
			FallbackProperty: map[string]interface{}{
				"property": map[string]interface{}{"id": float64(9), "addressLine": "Road 9"},
			},
		})
		if payload.PropertyID != 9 || payload.PropertyName != "Road 9" {
			t.Errorf("got id=%v name=%q", payload.PropertyID, payload.PropertyName)
		}
	})
}

func TestBuildDetails(t *testing.T) {
	b := fixedClockBuilder()
	gross := 12.5
	net := 10.0
	identity := "EXT-1"

	record := entity.ForecastRecord{
		ID: guid.New(),
		Plots: []entity.PlotRecord{
			{
				ID:              guid.New(),
				Label:           "North field",
				Area:            "2",
				LitersPerPlant:  "10",
				GrossCalculated: &gross,
				NetCalculated:   &net,
				PlotIdentity:    &identity,
				DiscountType:    entity.DiscountPercentage,
				DiscountValue:   "20",
				Source:          map[string]interface{}{"cropId": float64(3), "cropName": "Coffee"},
			},
			{
				ID: guid.New(),
			},
		},
	}

	payload := b.Build(record, PayloadContext{})
	if len(payload.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(payload.Details))
	}

	d := payload.Details[0]
	if !guid.IsGUID(d.ID) || d.ID == record.Plots[0].ID {
		t.Error("detail id must be freshly generated")
	}
	if d.ForecastID != payload.ID {
		t.Errorf("detail parent = %q, want %q", d.ForecastID, payload.ID)
	}
	if d.EstimatedQuantity != 12.5 {
		t.Errorf("estimated quantity = %v, want the cached gross", d.EstimatedQuantity)
	}
	if d.NetQuantity != 10 {
		t.Errorf("net quantity = %v, want 10", d.NetQuantity)
	}
	if d.PlotIdentity == nil || *d.PlotIdentity != "EXT-1" {
		t.Errorf("plot identity = %v", d.PlotIdentity)
	}
	if d.CropName != "Coffee" || d.ProductionArea != 2 || d.LitersPerPlant != 10 {
		t.Errorf("crop=%q area=%v liters=%v", d.CropName, d.ProductionArea, d.LitersPerPlant)
	}

	second := payload.Details[1]
	if second.PlotLabel != "Plot 2" {
		t.Errorf("unnamed plot label = %q, want positional default", second.PlotLabel)
	}
	if second.PlotIdentity != nil {
		t.Error("a plot without identity must upload a nil identity")
	}
	if payload.Details[0].ID == second.ID {
		t.Error("detail ids must be unique")
	}
}

func TestBuildDoesNotMutateRecord(t *testing.T) {
	b := fixedClockBuilder()
	record := entity.ForecastRecord{
		ID:    "local-1",
		Plots: []entity.PlotRecord{{ID: "temp-1"}},
	}

	b.Build(record, PayloadContext{})

	if record.ID != "local-1" || record.Plots[0].ID != "temp-1" {
		t.Error("source record was mutated")
	}
}

func TestBuildUserFields(t *testing.T) {
	b := fixedClockBuilder()
	payload := b.Build(entity.ForecastRecord{ID: guid.New()}, PayloadContext{
		CurrentUser: map[string]interface{}{
			"id":       "u-1",
			"name":     "Maria Silva",
			"email":    "maria@example.com",
			"vendorId": float64(42),
		},
		VendorID: "42",
	})

	if payload.UserID == nil || *payload.UserID != "u-1" {
		t.Errorf("user id = %v", payload.UserID)
	}
	if payload.AgronomistName != "Maria Silva" {
		t.Errorf("agronomist name = %q", payload.AgronomistName)
	}
	if payload.AgronomistID != 42 {
		t.Errorf("agronomist id = %v, want 42", payload.AgronomistID)
	}
}
