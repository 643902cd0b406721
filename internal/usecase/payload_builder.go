package usecase

import (
	"fmt"
	"strings"
	"time"

	"harvestsync-service/internal/domain/entity"
	"harvestsync-service/pkg/guid"
	"harvestsync-service/pkg/identity"
	"harvestsync-service/pkg/numeric"
)

// PayloadContext carries the contextual data a payload build falls back to
// when the record's own snapshots are incomplete
type PayloadContext struct {
	CurrentUser      map[string]interface{}
	VendorID         interface{}
	FallbackProducer map[string]interface{}
	FallbackProperty map[string]interface{}
}

// Defaults applied when neither the record nor the context can supply a value
const (
	defaultSeasonID    = 13
	defaultSeasonLabel = "2025/2026"
)

// statusVocabulary maps textual forecast statuses to their wire codes.
// Unrecognized text falls back to 0 (planned); numeric statuses pass through
// untouched.
var statusVocabulary = map[string]float64{
	"planned":      0,
	"planning":     0,
	"in progress":  1,
	"in-progress":  1,
	"ongoing":      1,
	"in execution": 1,
	"executing":    1,
	"completed":    2,
	"concluded":    2,
	"finished":     2,
	"harvested":    2,
	"done":         2,
	"cancelled":    3,
	"canceled":     3,
}

// PayloadBuilder transforms internal forecast records into the shape the
// remote forecast endpoint accepts
type PayloadBuilder struct {
	logger interface {
		Warn(msg string, keysAndValues ...interface{})
	}
	now func() time.Time
}

// NewPayloadBuilder creates a new payload builder
func NewPayloadBuilder(logger interface {
	Warn(msg string, keysAndValues ...interface{})
}) *PayloadBuilder {
	return &PayloadBuilder{
		logger: logger,
		now:    time.Now,
	}
}

// Build assembles the remote payload for one forecast record. Every output
// field resolves through a fixed fallback chain: the record's own
// denormalized snapshot first, then the context. The source record is never
// mutated.
func (b *PayloadBuilder) Build(record entity.ForecastRecord, pctx PayloadContext) entity.RemotePayload {
	producerInfo := record.ProducerRef
	if producerInfo == nil {
		producerInfo = pctx.FallbackProducer
	}

	propertyFallback := pctx.FallbackProperty
	if nested, ok := pctx.FallbackProperty["property"].(map[string]interface{}); ok {
		propertyFallback = nested
	}
	propertyInfo := record.PropertyRef
	if propertyInfo == nil {
		propertyInfo = propertyFallback
	}

	forecastID := firstString(record.IntegrationCode, record.ForecastID, record.ID)
	if !guid.IsGUID(forecastID) {
		forecastID = guid.New()
	}

	user := pctx.CurrentUser

	var userID *string
	if raw := pickFirst(user["id"], user["userId"]); raw != nil {
		s := identity.Stringify(raw)
		userID = &s
	}

	agronomistName := firstString(
		record.AgronomistName,
		stringOf(user["name"]),
		stringOf(user["fullName"]),
	)
	if agronomistName == "" {
		agronomistName = joinNames(stringOf(user["firstName"]), stringOf(user["lastName"]))
	}

	userName := firstString(
		record.UserName,
		stringOf(user["userName"]),
		stringOf(user["username"]),
		stringOf(user["email"]),
		agronomistName,
	)

	producerID := pickFirst(
		producerInfo["id"],
		record.ProducerID,
		producerInfo["clientCode"],
		producerInfo["partnerId"],
		producerInfo["partnerCode"],
		producerInfo["integrationCode"],
		mapGet(pctx.FallbackProducer, "id"),
		mapGet(pctx.FallbackProducer, "clientCode"),
		mapGet(pctx.FallbackProducer, "partnerId"),
		mapGet(pctx.FallbackProducer, "partnerCode"),
		mapGet(pctx.FallbackProducer, "integrationCode"),
	)

	partnerSource := producerID
	if partnerSource == nil {
		partnerSource = pickFirst(
			record.PartnerID,
			producerInfo["businessPartnerId"],
			producerInfo["partnerCode"],
			producerInfo["integrationCode"],
			mapGet(pctx.FallbackProducer, "businessPartnerId"),
			mapGet(pctx.FallbackProducer, "partnerCode"),
			mapGet(pctx.FallbackProducer, "integrationCode"),
		)
	}

	// numeric when the backend code is numeric, trimmed string otherwise
	var partnerID interface{} = float64(0)
	if partnerSource != nil {
		if parsed, ok := numeric.ParseNumber(partnerSource); ok {
			partnerID = parsed
		} else {
			partnerID = strings.TrimSpace(identity.Stringify(partnerSource))
		}
	}

	partnerName := firstString(
		record.PartnerName,
		record.ProducerName,
		stringOf(producerInfo["tradeName"]),
		stringOf(producerInfo["legalName"]),
		stringOf(mapGet(pctx.FallbackProducer, "tradeName")),
		stringOf(mapGet(pctx.FallbackProducer, "legalName")),
	)

	propertyID := numeric.NumberOr(pickFirst(
		nonEmpty(record.PropertyID),
		nonEmpty(identity.ResolvePropertyID(propertyInfo)),
		nonEmpty(identity.ResolvePropertyID(propertyFallback)),
	), 0)

	propertyName := firstString(
		identity.ResolvePropertyAddress(propertyInfo),
		identity.ResolvePropertyAddress(propertyFallback),
		strings.TrimSpace(record.PropertyName),
	)

	seasonID := numeric.NumberOr(record.SeasonID, defaultSeasonID)
	seasonLabel := firstString(record.SeasonLabel, defaultSeasonLabel)

	agronomistID := numeric.NumberOr(pickFirst(
		record.AgronomistID,
		pctx.VendorID,
		user["vendorId"],
	), 0)

	return entity.RemotePayload{
		ID:              forecastID,
		UserID:          userID,
		DateMoved:       b.requiredDate(nonEmpty(record.RegistrationDate), "dateMoved"),
		UserName:        userName,
		StatusCode:      b.statusCode(record.Status),
		AgronomistID:    agronomistID,
		AgronomistName:  agronomistName,
		PartnerID:       partnerID,
		PartnerName:     partnerName,
		PropertyID:      propertyID,
		PropertyName:    propertyName,
		SeasonID:        seasonID,
		SeasonLabel:     seasonLabel,
		Notes:           record.Notes,
		IntegrationCode: forecastID,
		SeasonPhaseID:   normalizePhaseID(firstString(record.PhaseID, record.PhaseLabel)),
		Details:         b.buildDetails(record.Plots, forecastID),
	}
}

// buildDetails maps each plot to a detail line. Every detail gets a freshly
// generated id and inherits the parent payload id as its foreign key.
func (b *PayloadBuilder) buildDetails(plots []entity.PlotRecord, forecastID string) []entity.RemoteDetail {
	details := make([]entity.RemoteDetail, 0, len(plots))

	for i, plot := range plots {
		src := plot.Source

		var plotIdentity *string
		if resolved, ok := resolvePlotIdentity(plot); ok {
			plotIdentity = &resolved
		}

		plotLabel := firstString(
			plot.Label,
			stringOf(src["name"]),
			stringOf(src["plotName"]),
			stringOf(src["description"]),
		)
		if plotLabel == "" {
			plotLabel = fmt.Sprintf("Plot %d", i+1)
		}

		cropID := pickFirst(src["cropId"], src["idCrop"], src["cropID"])
		if cropID == nil {
			cropID = float64(0)
		}
		varietyID := pickFirst(src["varietyId"], src["idVariety"], src["plotVarietyId"])
		if varietyID == nil {
			varietyID = float64(0)
		}
		techLevel := pickFirst(src["techLevel"], src["techGrade"], src["level"])
		if techLevel == nil {
			techLevel = float64(0)
		}
		statusCode := pickFirst(src["movementStatus"], src["status"])
		if statusCode == nil {
			statusCode = float64(0)
		}

		details = append(details, entity.RemoteDetail{
			ID:       guid.New(),
			CropID:   cropID,
			CropName: firstString(stringOf(src["cropName"]), stringOf(src["crop"]), stringOf(src["cropDescription"])),
			ProductionArea: numeric.NumberOr(pickFirst(
				nonEmpty(plot.Area),
				src["productionArea"],
				src["plotTotalArea"],
				src["area"],
				src["areaHa"],
			), 0),
			EstimatedQuantity: numeric.NumberOr(pickFirst(
				deref(plot.GrossCalculated),
				nonEmpty(plot.GrossEstimatedProduction),
				deref(plot.EstimatedCalculated),
				nonEmpty(plot.EstimatedProduction),
				src["estimatedProduction"],
				src["forecastProduction"],
			), 0),
			TechLevel:  techLevel,
			ForecastID: forecastID,
			StartDate: b.requiredDate(pickFirst(
				src["startDate"], src["activityStart"], src["movementDate"], src["date"],
			), "startDate"),
			EndDate: b.requiredDate(pickFirst(
				src["endDate"], src["activityEnd"], src["expectedEndDate"], src["movementDate"], src["date"],
			), "endDate"),
			VarietyID:    varietyID,
			VarietyName:  firstString(plot.VarietyName, stringOf(src["variety"]), stringOf(src["plotVariety"]), stringOf(src["varietyName"])),
			Notes:        firstString(stringOf(src["notes"]), stringOf(src["note"]), stringOf(src["remarks"])),
			StatusCode:   statusCode,
			PlotLabel:    plotLabel,
			PlotIdentity: plotIdentity,
			CertifiedLimit: numeric.NumberOr(pickFirst(
				src["certifiedLimit"], src["certifiedQuantityLimit"],
			), 0),
			LitersPerPlant: numeric.NumberOr(nonEmpty(plot.LitersPerPlant), 0),
			YieldPerHectare: numeric.NumberOr(pickFirst(
				nonEmpty(plot.ProductionPerHectare),
				nonEmpty(plot.PerHectareEstimate),
				src["perHaAverage"],
			), 0),
			DiscountType:  plot.DiscountType,
			DiscountValue: numeric.NumberOr(nonEmpty(plot.DiscountValue), 0),
			NetQuantity: numeric.NumberOr(pickFirst(
				deref(plot.NetCalculated),
				nonEmpty(plot.NetEstimatedProduction),
				nonEmpty(plot.EstimatedProduction),
			), 0),
		})
	}

	return details
}

// statusCode maps the record status to its wire code
func (b *PayloadBuilder) statusCode(status interface{}) float64 {
	switch value := status.(type) {
	case nil:
		return 0
	case string:
		if code, ok := statusVocabulary[strings.ToLower(strings.TrimSpace(value))]; ok {
			return code
		}
		return 0
	default:
		return numeric.NumberOr(value, 0)
	}
}

// requiredDate normalizes any accepted date representation to ISO-8601 and
// defaults to now. A present-but-unparseable date is logged: the wire format
// cannot tell it apart from an absent one, but the diagnostic trail can.
func (b *PayloadBuilder) requiredDate(v interface{}, field string) string {
	if iso := isoOrEmpty(v, b.now); iso != "" {
		return iso
	}
	if v != nil && strings.TrimSpace(identity.Stringify(v)) != "" {
		b.logger.Warn("Unparseable date replaced with current time",
			"field", field,
			"value", v)
	}
	return b.now().UTC().Format(time.RFC3339)
}

// dateLayouts accepted for string dates, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func isoOrEmpty(v interface{}, now func() time.Time) string {
	switch value := v.(type) {
	case nil:
		return ""
	case time.Time:
		if value.IsZero() {
			return ""
		}
		return value.UTC().Format(time.RFC3339)
	case float64:
		// epoch milliseconds
		return time.UnixMilli(int64(value)).UTC().Format(time.RFC3339)
	case int64:
		return time.UnixMilli(value).UTC().Format(time.RFC3339)
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed.UTC().Format(time.RFC3339)
			}
		}
		return ""
	default:
		return ""
	}
}

// normalizePhaseID keeps GUID-shaped phase ids, stringifies numeric ones and
// drops anything else
func normalizePhaseID(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if guid.IsGUID(trimmed) {
		return &trimmed
	}
	if parsed, ok := numeric.ParseDecimal(trimmed); ok {
		s := identity.Stringify(parsed)
		return &s
	}
	return nil
}

// pickFirst returns the first value that is neither nil nor an empty string
func pickFirst(values ...interface{}) interface{} {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringOf(v interface{}) string {
	return identity.Stringify(v)
}

func nonEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func mapGet(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	return m[key]
}

func joinNames(parts ...string) string {
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			fields = append(fields, strings.TrimSpace(p))
		}
	}
	return strings.Join(fields, " ")
}
