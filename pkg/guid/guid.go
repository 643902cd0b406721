package guid

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// guidPattern matches the canonical 8-4-4-4-12 hyphenated hexadecimal form,
// constrained to a valid version nibble (1-5) and variant nibble (8, 9, a, b).
var guidPattern = regexp.MustCompile(
	`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`,
)

// IsGUID reports whether the value is GUID-shaped after trimming
func IsGUID(value string) bool {
	return guidPattern.MatchString(strings.TrimSpace(value))
}

// New generates a random version-4 GUID. It prefers the cryptographically
// sourced generator and degrades to a pseudo-random template fill when the
// secure source is unavailable.
func New() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackID()
	}
	return id.String()
}

const hexDigits = "0123456789abcdef"

func fallbackID() string {
	template := "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"
	var b strings.Builder
	b.Grow(len(template))
	for _, c := range template {
		switch c {
		case 'x':
			b.WriteByte(hexDigits[rand.Intn(16)])
		case 'y':
			// variant nibble: 10xx binary
			b.WriteByte(hexDigits[8+rand.Intn(4)])
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
