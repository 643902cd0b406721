// Package identity derives stable identifiers for producers, properties and
// field plots from the heterogeneous payload shapes the backends emit. Each
// resolver walks a fixed, priority-ordered candidate list; the order is part
// of the contract and must not be reshuffled.
package identity

import (
	"math"
	"strconv"
	"strings"
)

// propertyIDCandidates is the priority order for property identifiers:
// plain ids first, then integration and partner codes.
var propertyIDCandidates = []string{
	"id",
	"ID",
	"propertyId",
	"idProperty",
	"propertyCode",
	"uncardedPropertyCode",
	"code",
	"addressCode",
	"addressId",
	"farmCode",
	"farmId",
	"partnerId",
	"partnerCode",
	"integrationCode",
}

// propertyNameCandidates is the priority order for a human display name.
var propertyNameCandidates = []string{
	"addressLine",
	"description",
	"propertyName",
	"name",
	"tradeName",
	"legalName",
}

// plotIdentityCandidates is the priority order for the stable external plot
// identifier used to join against synced plot catalogs.
var plotIdentityCandidates = []string{
	"plotId",
	"idPlot",
	"plotID",
	"plotCode",
	"code",
	"id",
}

// ResolvePropertyID returns the first non-empty property identifier,
// stringified and trimmed, or "" when no candidate field is present.
func ResolvePropertyID(property map[string]interface{}) string {
	if property == nil {
		return ""
	}
	raw := firstValid(property, propertyIDCandidates)
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(Stringify(raw))
}

// ResolvePropertyDisplayName returns the best available display name for a
// property, or "" when none of the candidate fields carries a value.
func ResolvePropertyDisplayName(property map[string]interface{}) string {
	if property == nil {
		return ""
	}
	raw := firstValid(property, propertyNameCandidates)
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(Stringify(raw))
}

// ResolvePropertyAddress returns the property street-address line, trimmed
func ResolvePropertyAddress(property map[string]interface{}) string {
	if property == nil {
		return ""
	}
	raw, ok := property["addressLine"]
	if !ok || raw == nil {
		return ""
	}
	return strings.TrimSpace(Stringify(raw))
}

// ResolvePlotIdentity returns the stable external identifier of a physical
// plot. It never generates a value: ok=false means the plot has no stable
// external link and callers must not substitute one.
func ResolvePlotIdentity(plot map[string]interface{}) (string, bool) {
	if plot == nil {
		return "", false
	}

	// nested plot.id outranks everything except the direct plotId field
	candidates := make([]interface{}, 0, len(plotIdentityCandidates)+1)
	candidates = append(candidates, plot["plotId"])
	if nested, ok := plot["plot"].(map[string]interface{}); ok {
		candidates = append(candidates, nested["id"])
	}
	for _, key := range plotIdentityCandidates[1:] {
		candidates = append(candidates, plot[key])
	}

	for _, raw := range candidates {
		if raw == nil {
			continue
		}
		switch value := raw.(type) {
		case string:
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed, true
			}
		case float64:
			if !math.IsNaN(value) && !math.IsInf(value, 0) {
				return Stringify(value), true
			}
		case int:
			return strconv.Itoa(value), true
		}
	}
	return "", false
}

// SameProperty reports whether two payloads describe the same property.
// Resolved ids decide when both are present; with an id missing on either
// side the comparison falls back to case-insensitive trimmed name equality;
// with neither available the entities are treated as distinct.
func SameProperty(a, b map[string]interface{}) bool {
	idA := ResolvePropertyID(a)
	idB := ResolvePropertyID(b)
	if idA != "" && idB != "" {
		return idA == idB
	}

	nameA := strings.ToLower(strings.TrimSpace(ResolvePropertyDisplayName(a)))
	nameB := strings.ToLower(strings.TrimSpace(ResolvePropertyDisplayName(b)))
	if nameA == "" || nameB == "" {
		return false
	}
	return nameA == nameB
}

// Stringify renders an identifier-ish value as a string. Numbers drop
// trailing zeros so 42.0 and "42" compare equal.
func Stringify(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return ""
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

func firstValid(m map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return value
	}
	return nil
}
