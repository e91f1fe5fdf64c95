package dashboard

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Reading is a single numeric value that may be absent. An endpoint that
// could not be fetched yields an invalid Reading, which renders as "-".
type Reading struct {
	Value float64
	Valid bool
}

// Value returns a present Reading.
func Value(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// Absent is the Reading of a value that could not be fetched.
var Absent = Reading{}

// MarshalJSON renders an absent Reading as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Valid || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// Placeholder is shown wherever a value is absent or zero.
const Placeholder = "-"

var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count in base 1024 with up to two decimals,
// e.g. 1536 -> "1.5 KB". Values past GB stay in GB.
func FormatBytes(r Reading) string {
	if !r.Valid || r.Value < 0 || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return Placeholder
	}
	if r.Value == 0 {
		return "0 B"
	}

	i := 0
	scaled := r.Value
	for scaled >= 1024 && i < len(byteUnits)-1 {
		scaled /= 1024
		i++
	}
	scaled = math.Round(scaled*100) / 100
	return strconv.FormatFloat(scaled, 'f', -1, 64) + " " + byteUnits[i]
}

// FormatDuration renders seconds as "Hh Mm Ss".
func FormatDuration(r Reading) string {
	if !r.Valid || r.Value <= 0 || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return Placeholder
	}
	total := int64(r.Value)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// FormatPercentage renders value/max as a percentage with one decimal.
func FormatPercentage(value, max float64) string {
	if value == 0 || max == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", value/max*100)
}

// FormatCount renders a count with thousands separators, or "-" when it is
// absent or zero.
func FormatCount(r Reading) string {
	if !r.Valid || r.Value == 0 || math.IsNaN(r.Value) {
		return Placeholder
	}
	if r.Value == math.Trunc(r.Value) && math.Abs(r.Value) < 1<<53 {
		return humanize.Comma(int64(r.Value))
	}
	return humanize.CommafWithDigits(r.Value, 2)
}

// Level is the severity band of a percentage gauge.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelDanger
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelDanger:
		return "danger"
	default:
		return "normal"
	}
}

// Thresholds are the percentages above which a gauge is warning or danger.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds match the dashboard's historical bands.
var DefaultThresholds = Thresholds{Warning: 60, Critical: 80}

// LevelFor classifies percent. Both comparisons are strict, so exactly 80
// is still a warning.
func (t Thresholds) LevelFor(percent float64) Level {
	switch {
	case percent > t.Critical:
		return LevelDanger
	case percent > t.Warning:
		return LevelWarning
	default:
		return LevelNormal
	}
}
