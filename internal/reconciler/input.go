package reconciler

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"chatbox/internal/models"
)

// UnboundedGuard is the largest bounded length a user can enter. Larger
// numerals become unbounded, and the slider position equal to the guard
// stands for "inf".
const UnboundedGuard = 32728

// ParseLengthInput interprets text typed into a length field. Any decimal
// numeral is accepted, including signed and exponent forms; values above
// the guard become unbounded, smaller ones must be non-negative integers.
// It returns false when the edit must be rejected.
func ParseLengthInput(raw string) (models.LengthLimit, bool) {
	raw = strings.TrimSpace(raw)
	if raw == models.UnboundedSentinel {
		return models.Unbounded(), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		// Overflow parses as ±Inf, underflow as 0.
	case err != nil:
		return models.LengthLimit{}, false
	case math.IsInf(f, 0):
		// Spelled-out infinities are not numerals.
		return models.LengthLimit{}, false
	}
	if math.IsNaN(f) || f < 0 {
		return models.LengthLimit{}, false
	}
	if f > UnboundedGuard {
		return models.Unbounded(), true
	}
	if f != math.Trunc(f) {
		return models.LengthLimit{}, false
	}
	return models.Bounded(int(f)), true
}

// FromSliderPosition maps a slider position to a length limit.
func FromSliderPosition(pos int) models.LengthLimit {
	if pos == UnboundedGuard {
		return models.Unbounded()
	}
	return models.Bounded(pos)
}

// SliderPosition is the inverse of FromSliderPosition.
func SliderPosition(l models.LengthLimit) int {
	n, ok := l.Value()
	if !ok {
		return UnboundedGuard
	}
	return n
}

// PickThumb selects the value of the active handle of a control that may
// report several values at once.
func PickThumb(values []float64, active int) (float64, bool) {
	if active < 0 || active >= len(values) {
		return 0, false
	}
	return values[active], true
}
