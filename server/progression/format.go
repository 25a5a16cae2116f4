package progression

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatXP abbreviates xp for display: "750", "15.8K", "1.2M".
// Negative xp counts as zero.
func FormatXP(xp int) string {
	if xp < 0 {
		xp = 0
	}
	switch {
	case xp < 1_000:
		return strconv.Itoa(xp)
	case xp < 1_000_000:
		return scaled(float64(xp), 1_000, "K")
	default:
		return scaled(float64(xp), 1_000_000, "M")
	}
}

// FormatXPFloat is FormatXP for fractional input. Values under 1000 keep their
// shortest decimal form.
func FormatXPFloat(xp float64) (string, error) {
	if math.IsNaN(xp) || math.IsInf(xp, 0) {
		return "", ErrInvalidArgument
	}
	if xp < 0 {
		xp = 0
	}
	switch {
	case xp < 1_000:
		return strconv.FormatFloat(xp, 'f', -1, 64), nil
	case xp < 1_000_000:
		return scaled(xp, 1_000, "K"), nil
	default:
		return scaled(xp, 1_000_000, "M"), nil
	}
}

// scaled rounds v/unit to one decimal, half away from zero.
func scaled(v float64, unit float64, suffix string) string {
	tenths := math.Round(v / (unit / 10))
	return strconv.FormatFloat(tenths/10, 'f', 1, 64) + suffix
}

// GroupXP renders xp with thousands separators, e.g. "15,750".
func GroupXP(xp int) string {
	if xp < 0 {
		xp = 0
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", xp)
}
