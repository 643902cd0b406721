package usecase

import (
	"strings"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/pkg/guid"
	"harvestsync-service/pkg/identity"
)

// NormalizeForecastRecord ensures a locally created forecast record carries
// a canonical GUID-shaped id, mirrors it into the integration fields and
// into every plot's parent link, and resolves each plot's stable identity.
// Records already confirmed synced are never touched. When no correction is
// needed the record comes back unchanged with changed=false, so callers can
// skip rewriting storage.
func NormalizeForecastRecord(record entity.ForecastRecord) (entity.ForecastRecord, bool) {
	if record.Synced {
		return record, false
	}

	changed := false

	id := record.ID
	if !guid.IsGUID(id) {
		id = guid.New()
	}

	if record.ID != id {
		record.ID = id
		changed = true
	}
	if record.ForecastID != id {
		record.ForecastID = id
		changed = true
	}
	if record.IntegrationCode != id {
		record.IntegrationCode = id
		changed = true
	}

	if len(record.Plots) > 0 {
		plots := make([]entity.PlotRecord, len(record.Plots))
		copy(plots, record.Plots)
		plotsChanged := false

		for i := range plots {
			if normalizePlot(&plots[i], id) {
				plotsChanged = true
			}
		}

		if plotsChanged {
			record.Plots = plots
			changed = true
		}
	}

	return record, changed
}

// normalizePlot corrects one plot in place and reports whether anything
// changed
func normalizePlot(plot *entity.PlotRecord, parentID string) bool {
	changed := false

	if !guid.IsGUID(plot.ID) {
		plot.ID = guid.New()
		changed = true
	}

	if resolved, ok := resolvePlotIdentity(*plot); ok {
		if plot.PlotIdentity == nil || *plot.PlotIdentity != resolved {
			plot.PlotIdentity = &resolved
			changed = true
		}
	} else if plot.PlotIdentity != nil {
		// a stored identity we cannot re-derive is kept, trimmed
		trimmed := strings.TrimSpace(*plot.PlotIdentity)
		if trimmed == "" {
			plot.PlotIdentity = nil
			changed = true
		} else if trimmed != *plot.PlotIdentity {
			plot.PlotIdentity = &trimmed
			changed = true
		}
	}

	if plot.ForecastID != parentID {
		plot.ForecastID = parentID
		changed = true
	}

	return changed
}

// resolvePlotIdentity prefers the identity already stored on the plot and
// falls back to the raw catalog record. It never generates a value.
func resolvePlotIdentity(plot entity.PlotRecord) (string, bool) {
	if plot.PlotIdentity != nil {
		trimmed := strings.TrimSpace(*plot.PlotIdentity)
		if trimmed != "" {
			return trimmed, true
		}
	}
	return identity.ResolvePlotIdentity(plot.Source)
}
