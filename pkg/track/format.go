package track

import (
	"fmt"
	"math"
)

// NoData is the placeholder shown where a timer or value has nothing to
// display yet.
const NoData = "--"

// FormatClock renders seconds as m:ss, or h:mm:ss past the hour mark.
// Negative input renders as 0:00.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatValue renders a gold value compactly: 999 and below as-is, then
// 1.2k, 3.4m. One decimal place, trailing ".0" trimmed by rounding rules.
func FormatValue(v float64) string {
	neg := v < 0
	a := math.Abs(v)

	var out string
	switch {
	case a >= 1e6:
		out = trimDecimal(a/1e6) + "m"
	case a >= 1e3:
		out = trimDecimal(a/1e3) + "k"
	default:
		out = fmt.Sprintf("%.0f", a)
	}
	if neg {
		out = "-" + out
	}
	return out
}

// trimDecimal formats with one decimal place, dropping it when it is zero.
func trimDecimal(v float64) string {
	if math.Abs(v-math.Round(v)) < 0.05 {
		return fmt.Sprintf("%.0f", math.Round(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// FormatRate renders a per-hour rate, or the placeholder when the rate is
// not yet meaningful.
func FormatRate(v float64) string {
	if v <= 0 {
		return NoData
	}
	return FormatValue(v) + "/h"
}
