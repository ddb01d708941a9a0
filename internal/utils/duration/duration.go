// Package duration parses retention windows such as "30d", "2 weeks" or
// "6 months"
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	k1duration "github.com/k1LoW/duration"
)

var unitMap = map[string]string{
	"d":      "d",
	"day":    "d",
	"days":   "d",
	"w":      "w",
	"week":   "w",
	"weeks":  "w",
	"m":      "m",
	"month":  "m",
	"months": "m",
	"y":      "y",
	"year":   "y",
	"years":  "y",
}

var unitDurations = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
	"m": 30 * 24 * time.Hour,
	"y": 365 * 24 * time.Hour,
}

var (
	// ErrInvalidFormat indicates the input duration string contains invalid characters
	ErrInvalidFormat = errors.New("invalid duration format")

	// ErrInvalidNumber indicates the numeric part is invalid or not positive
	ErrInvalidNumber = errors.New("invalid duration number")

	// ErrInvalidUnit indicates the unit part is not recognized
	ErrInvalidUnit = errors.New("invalid duration unit")
)

// Parse reads a single "<number><unit>" window. Units are days, weeks,
// months (30 days) and years (365 days), abbreviated or spelled out, with
// optional spaces in between. Anything else, like "36h" or "1d12h", is
// handed to k1LoW/duration.
func Parse(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	numStr, unit, err := splitNumberAndUnit(input)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid characters", ErrInvalidFormat)
	}

	if numStr == "" {
		return 0, fmt.Errorf("%w: must be a number", ErrInvalidNumber)
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("%w: must be a number", ErrInvalidNumber)
	}

	if unit == "" {
		return 0, fmt.Errorf("%w: missing unit", ErrInvalidFormat)
	}

	mappedUnit, exists := unitMap[unit]
	if !exists {
		d, err := k1duration.Parse(input)
		if err != nil {
			return 0, fmt.Errorf("%w: '%s' (supported: d, w, m, y, or a Go-style duration)", ErrInvalidUnit, unit)
		}
		return d, nil
	}

	return time.Duration(num) * unitDurations[mappedUnit], nil
}

// splitNumberAndUnit splits "30 days" into "30" and "days". Digits after
// the first letter are kept in the unit so compound forms reach the
// fallback parser intact.
func splitNumberAndUnit(input string) (string, string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}

	numPart := strings.Builder{}
	unitPart := strings.Builder{}

	for _, r := range input {
		switch {
		case unicode.IsDigit(r) && unitPart.Len() == 0:
			numPart.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsDigit(r):
			unitPart.WriteRune(r)
		case unicode.IsSpace(r):
		default:
			return "", "", ErrInvalidFormat
		}
	}
	return numPart.String(), unitPart.String(), nil
}
