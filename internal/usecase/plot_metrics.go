package usecase

import (
	"math"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/pkg/numeric"
)

// litersPerYieldUnit is the agronomic conversion factor: 500 liters of
// cherry yield one unit of processed yield measure.
const litersPerYieldUnit = 500.0

// discountAreaSourceKeys is the fallback order for an area-like figure when
// applying a per-hectare discount and the entry area is absent. The order is
// contract; do not reorder.
var discountAreaSourceKeys = []string{
	"totalArea",
	"area",
	"cultivableArea",
	"plotTotalArea",
}

// Recompute derives the plot's production figures from its authoritative
// field. Exactly one of liters, estimated production and production per
// hectare is authoritative at a time (LastEditedField); the other two are
// recomputed from it plus plant count and area. The returned plot carries
// refreshed display strings and full-precision cached numerics; the input is
// not mutated.
func Recompute(plot entity.PlotRecord) entity.PlotRecord {
	entryMode := entity.EntryModeLiters
	if plot.EntryMode == entity.EntryModeProduction {
		entryMode = entity.EntryModeProduction
	}

	lastEdited := plot.LastEditedField
	if !isProductionField(lastEdited) {
		if entryMode == entity.EntryModeProduction {
			lastEdited = entity.FieldEstimatedProduction
		} else {
			lastEdited = entity.FieldLiters
		}
	}

	plantCount := parseOpt(plot.PlantCount)
	area := parseOpt(plot.Area)

	litersInput := parseOpt(plot.LitersPerPlant)
	grossInput := parseOpt(plot.GrossEstimatedProduction)
	grossStored := firstPtr(plot.GrossCalculated, plot.EstimatedCalculated)
	legacy := parseOpt(plot.EstimatedProduction)

	// A fresh user entry outranks the cached figure; otherwise the cache
	// outranks the legacy display string.
	var grossBase *float64
	if lastEdited == entity.FieldEstimatedProduction {
		grossBase = firstPtr(grossInput, legacy, grossStored)
	} else {
		grossBase = firstPtr(grossInput, grossStored, legacy)
	}

	perHaInput := parseOpt(plot.ProductionPerHectare)
	perHaLegacy := parseOpt(plot.PerHectareEstimate)

	var liters, gross, perHa *float64

	switch lastEdited {
	case entity.FieldLiters:
		if litersInput != nil && positive(plantCount) {
			liters = litersInput
			gross = fptr(*plantCount * *litersInput / litersPerYieldUnit)
		}
		if gross == nil && grossBase != nil {
			gross = grossBase
			if positive(plantCount) {
				liters = fptr(*grossBase * litersPerYieldUnit / *plantCount)
			}
		}
		if gross != nil && positive(area) {
			perHa = fptr(*gross / *area)
		} else if perHaInput != nil {
			perHa = perHaInput
			if positive(area) {
				gross = fptr(*perHaInput * *area)
			}
		}

	case entity.FieldProductionPerHa:
		perHaBase := firstPtr(perHaInput, perHaLegacy)
		if perHaBase != nil && positive(area) {
			perHa = perHaBase
			gross = fptr(*perHaBase * *area)
			if positive(plantCount) {
				liters = fptr(*gross * litersPerYieldUnit / *plantCount)
			}
		} else if grossBase != nil {
			gross = grossBase
			if positive(area) {
				perHa = fptr(*gross / *area)
			}
			if positive(plantCount) {
				liters = fptr(*gross * litersPerYieldUnit / *plantCount)
			}
		}

	default: // estimated production is authoritative
		if grossBase != nil {
			gross = grossBase
			if positive(area) {
				perHa = fptr(*gross / *area)
			}
			if positive(plantCount) {
				liters = fptr(*gross * litersPerYieldUnit / *plantCount)
			}
		} else if perHaInput != nil && positive(area) {
			perHa = perHaInput
			gross = fptr(*perHaInput * *area)
			if positive(plantCount) {
				liters = fptr(*gross * litersPerYieldUnit / *plantCount)
			}
		} else if litersInput != nil && positive(plantCount) {
			liters = litersInput
			gross = fptr(*plantCount * *litersInput / litersPerYieldUnit)
			if positive(area) {
				perHa = fptr(*gross / *area)
			}
		}
	}

	// Keep whatever cached values still exist when a derivation path had
	// missing prerequisites.
	if liters == nil && litersInput != nil {
		liters = litersInput
	}
	if gross == nil && grossBase != nil {
		gross = grossBase
	}
	if perHa == nil && perHaInput != nil {
		perHa = perHaInput
	} else if perHa == nil && perHaLegacy != nil {
		perHa = perHaLegacy
	}

	net := applyDiscount(plot, gross, area)

	out := plot
	out.EntryMode = entryMode
	out.LastEditedField = lastEdited

	switch {
	case lastEdited == entity.FieldEstimatedProduction:
		// user-typed value stays verbatim
	case gross != nil:
		out.GrossEstimatedProduction = numeric.FormatDecimal(*gross)
	}

	if net != nil {
		out.NetEstimatedProduction = numeric.FormatDecimal(*net)
	} else if out.NetEstimatedProduction == "" {
		out.NetEstimatedProduction = plot.EstimatedProduction
	}
	out.EstimatedProduction = out.NetEstimatedProduction

	if lastEdited != entity.FieldLiters {
		if liters != nil {
			out.LitersPerPlant = numeric.FormatDecimal(*liters)
		} else {
			out.LitersPerPlant = ""
		}
	}

	if lastEdited != entity.FieldProductionPerHa {
		if perHa != nil {
			out.ProductionPerHectare = numeric.FormatDecimal(*perHa)
		} else {
			out.ProductionPerHectare = ""
		}
	}
	if perHa != nil {
		out.PerHectareEstimate = numeric.FormatDecimal(*perHa)
	} else {
		out.PerHectareEstimate = out.ProductionPerHectare
	}

	out.GrossCalculated = round6(gross)
	out.EstimatedCalculated = round6(gross)
	out.NetCalculated = round6(net)

	return out
}

// applyDiscount computes the net production after the plot's discount rule,
// flooring at zero. Per-hectare discounts use the entry area when present
// and otherwise walk the source-record area fallback chain.
func applyDiscount(plot entity.PlotRecord, gross, area *float64) *float64 {
	if gross == nil {
		return nil
	}
	value := parseOpt(plot.DiscountValue)
	if value == nil || *value <= 0 {
		return gross
	}

	switch plot.DiscountType {
	case entity.DiscountPercentage:
		return fptr(math.Max(*gross-*gross**value/100, 0))
	case entity.DiscountPerHectare:
		discountArea := area
		for _, key := range discountAreaSourceKeys {
			if discountArea != nil {
				break
			}
			discountArea = parseAny(plot.Source[key])
		}
		if positive(discountArea) {
			return fptr(math.Max(*gross-*value**discountArea, 0))
		}
		return gross
	default:
		return gross
	}
}

// EditLiters applies a liters-per-plant entry and recomputes
func EditLiters(plot entity.PlotRecord, value string) entity.PlotRecord {
	plot.EntryMode = entity.EntryModeLiters
	plot.LastEditedField = entity.FieldLiters
	plot.LitersPerPlant = numeric.SanitizeLitersInput(value)
	return Recompute(plot)
}

// EditEstimatedProduction applies a gross-production entry and recomputes.
// Cached figures are dropped so the typed value is authoritative.
func EditEstimatedProduction(plot entity.PlotRecord, value string) entity.PlotRecord {
	plot.EntryMode = entity.EntryModeProduction
	plot.LastEditedField = entity.FieldEstimatedProduction
	plot.GrossEstimatedProduction = value
	plot.EstimatedProduction = value
	plot.GrossCalculated = nil
	plot.EstimatedCalculated = nil
	plot.NetCalculated = nil
	return Recompute(plot)
}

// EditProductionPerHectare applies a per-hectare entry and recomputes
func EditProductionPerHectare(plot entity.PlotRecord, value string) entity.PlotRecord {
	plot.EntryMode = entity.EntryModeProduction
	plot.LastEditedField = entity.FieldProductionPerHa
	plot.ProductionPerHectare = value
	plot.PerHectareEstimate = value
	return Recompute(plot)
}

// EditDiscountType changes the discount rule and recomputes against the
// gross figure, not the previously discounted one
func EditDiscountType(plot entity.PlotRecord, value interface{}) entity.PlotRecord {
	plot.DiscountType = numeric.SanitizeDiscountType(value)
	plot.GrossEstimatedProduction = grossBaseline(plot)
	return Recompute(plot)
}

// EditDiscountValue changes the discount magnitude and recomputes against
// the gross figure
func EditDiscountValue(plot entity.PlotRecord, value string) entity.PlotRecord {
	plot.DiscountValue = value
	plot.GrossEstimatedProduction = grossBaseline(plot)
	return Recompute(plot)
}

// SetEntryMode toggles between liters and production entry. The last-edited
// field survives only when it belongs to the new mode; otherwise it resets
// to the mode's natural default so stale derived values are not mistaken
// for user input.
func SetEntryMode(plot entity.PlotRecord, mode string) entity.PlotRecord {
	if mode == entity.EntryModeLiters {
		plot.LastEditedField = entity.FieldLiters
	} else if plot.LastEditedField != entity.FieldEstimatedProduction &&
		plot.LastEditedField != entity.FieldProductionPerHa {
		plot.LastEditedField = entity.FieldEstimatedProduction
	}
	plot.EntryMode = mode
	return Recompute(plot)
}

// DefaultEntryState infers entry mode and authoritative field for a plot
// loaded from the catalog, based on which figures it already carries
func DefaultEntryState(plot entity.PlotRecord) entity.PlotRecord {
	hasLiters := plot.LitersPerPlant != ""
	hasGross := plot.GrossEstimatedProduction != "" || plot.EstimatedProduction != ""
	hasPerHa := plot.ProductionPerHectare != ""

	if plot.EntryMode != entity.EntryModeLiters && plot.EntryMode != entity.EntryModeProduction {
		if hasLiters {
			plot.EntryMode = entity.EntryModeLiters
		} else {
			plot.EntryMode = entity.EntryModeProduction
		}
	}

	if !isProductionField(plot.LastEditedField) {
		switch {
		case plot.EntryMode == entity.EntryModeLiters:
			plot.LastEditedField = entity.FieldLiters
		case hasGross:
			plot.LastEditedField = entity.FieldEstimatedProduction
		case hasPerHa:
			plot.LastEditedField = entity.FieldProductionPerHa
		default:
			plot.LastEditedField = entity.FieldEstimatedProduction
		}
	}
	return plot
}

func isProductionField(field string) bool {
	switch field {
	case entity.FieldLiters, entity.FieldEstimatedProduction, entity.FieldProductionPerHa:
		return true
	}
	return false
}

func parseOpt(s string) *float64 {
	if v, ok := numeric.ParseDecimal(s); ok {
		return &v
	}
	return nil
}

func parseAny(v interface{}) *float64 {
	if f, ok := numeric.ParseNumber(v); ok {
		return &f
	}
	return nil
}

func fptr(v float64) *float64 {
	return &v
}

func firstPtr(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

func round6(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*1e6) / 1e6
	return &rounded
}

func grossBaseline(plot entity.PlotRecord) string {
	if plot.GrossEstimatedProduction != "" {
		return plot.GrossEstimatedProduction
	}
	if plot.GrossCalculated != nil {
		return numeric.FormatDecimal(*plot.GrossCalculated)
	}
	return plot.EstimatedProduction
}
