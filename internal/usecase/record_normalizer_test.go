package usecase

import (
	"testing"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/pkg/guid"
)

func TestNormalizeAssignsCanonicalIDs(t *testing.T) {
	record := entity.ForecastRecord{
		ID: "local-123",
		Plots: []entity.PlotRecord{
			{ID: "temp-1"},
			{ID: "9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5f"},
		},
	}

	normalized, changed := NormalizeForecastRecord(record)
	if !changed {
		t.Fatal("expected changed=true")
	}
	if !guid.IsGUID(normalized.ID) {
		t.Errorf("record id %q is not a GUID", normalized.ID)
	}
	if normalized.ForecastID != normalized.ID || normalized.IntegrationCode != normalized.ID {
		t.Error("integration fields must mirror the record id")
	}
	for i, plot := range normalized.Plots {
		if !guid.IsGUID(plot.ID) {
			t.Errorf("plot %d id %q is not a GUID", i, plot.ID)
		}
		if plot.ForecastID != normalized.ID {
			t.Errorf("plot %d parent link = %q, want %q", i, plot.ForecastID, normalized.ID)
		}
	}
	if normalized.Plots[1].ID != "9b2b8a3e-1f44-4c1a-9f2d-0a1b2c3d4e5f" {
		t.Error("an already valid plot id must not be regenerated")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	record := entity.ForecastRecord{
		ID:    "local-123",
		Plots: []entity.PlotRecord{{ID: "temp-1"}},
	}

	first, _ := NormalizeForecastRecord(record)
	second, changed := NormalizeForecastRecord(first)
	if changed {
		t.Fatal("a second pass must report no changes")
	}
	if second.ID != first.ID || second.Plots[0].ID != first.Plots[0].ID {
		t.Error("ids must be stable across passes")
	}
}

func TestNormalizeSkipsSyncedRecords(t *testing.T) {
	record := entity.ForecastRecord{
		ID:     "not-a-guid",
		Synced: true,
	}
	normalized, changed := NormalizeForecastRecord(record)
	if changed {
		t.Fatal("synced records must not change")
	}
	if normalized.ID != "not-a-guid" {
		t.Errorf("synced record id rewritten to %q", normalized.ID)
	}
}

func TestNormalizeResolvesPlotIdentity(t *testing.T) {
	record := entity.ForecastRecord{
		ID: "local-1",
		Plots: []entity.PlotRecord{
			{
				ID:     "temp-1",
				Source: map[string]interface{}{"plotId": "EXT-9"},
			},
			{ID: "temp-2"},
		},
	}

	normalized, _ := NormalizeForecastRecord(record)
	if normalized.Plots[0].PlotIdentity == nil || *normalized.Plots[0].PlotIdentity != "EXT-9" {
		t.Errorf("plot identity = %v, want EXT-9", normalized.Plots[0].PlotIdentity)
	}
	if normalized.Plots[1].PlotIdentity != nil {
		t.Error("a plot without identity fields must keep a nil identity")
	}
}

func TestNormalizeKeepsStoredIdentityOverSource(t *testing.T) {
	stored := "KEEP-1"
	record := entity.ForecastRecord{
		ID: "local-1",
		Plots: []entity.PlotRecord{
			{
				ID:           "temp-1",
				PlotIdentity: &stored,
				Source:       map[string]interface{}{"plotId": "EXT-9"},
			},
		},
	}

	normalized, _ := NormalizeForecastRecord(record)
	if got := normalized.Plots[0].PlotIdentity; got == nil || *got != "KEEP-1" {
		t.Errorf("stored identity must win, got %v", got)
	}
}

func TestNormalizeDoesNotMutateInputPlots(t *testing.T) {
	record := entity.ForecastRecord{
		ID:    "local-1",
		Plots: []entity.PlotRecord{{ID: "temp-1"}},
	}

	NormalizeForecastRecord(record)

	if record.Plots[0].ID != "temp-1" {
		t.Error("input plot slice was mutated")
	}
}
