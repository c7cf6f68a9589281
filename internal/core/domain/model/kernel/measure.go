package kernel

import (
	"fmt"
	"math"

	"jewelflow/internal/pkg/errs"
)

// weightEpsilon is the tolerance used when comparing weights.
// Scale readings below a milligram are noise for jewelry work.
const weightEpsilon = 0.001

// Measure selects which of the two tracked measures is authoritative for a
// workflow when the state machine checks assignment and yield.
type Measure int

const (
	// MeasureUnknown represents an invalid or undefined measure.
	MeasureUnknown Measure = iota

	// MeasureQuantity makes piece counts authoritative.
	MeasureQuantity

	// MeasureWeight makes gram weight authoritative.
	MeasureWeight
)

// Validate checks that the measure is one of the defined values.
func (m Measure) Validate() error {
	if m != MeasureQuantity && m != MeasureWeight {
		return errs.NewValueIsInvalidErrorWithCause("measure", fmt.Errorf("%d is not a valid measure", m))
	}
	return nil
}

// String returns the human-readable name of the measure.
func (m Measure) String() string {
	switch m {
	case MeasureQuantity:
		return "quantity"
	case MeasureWeight:
		return "weight"
	default:
		return "unknown"
	}
}

// Quantity represents a non-negative count of pieces.
// Quantity is an immutable value object; arithmetic that would produce a
// negative count fails instead of clamping.
//
// Example:
//
//	q, err := kernel.NewQuantity(50)
//	if err != nil {
//	    // Handle validation error
//	}
//	rest, err := q.Sub(kernel.MustQuantity(35)) // 15
type Quantity struct {
	value int
}

// NewQuantity creates a Quantity from a raw count.
// Returns an error if the count is negative.
func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, errs.NewValueIsOutOfRangeError("quantity", value, 0, math.MaxInt)
	}
	return Quantity{value: value}, nil
}

// MustQuantity creates a Quantity and panics on a negative count.
// Intended for constants and tests where the value is known to be valid.
func MustQuantity(value int) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// Value returns the raw count.
func (q Quantity) Value() int {
	return q.value
}

// IsZero reports whether the quantity is zero pieces.
func (q Quantity) IsZero() bool {
	return q.value == 0
}

// IsPositive reports whether the quantity is greater than zero.
func (q Quantity) IsPositive() bool {
	return q.value > 0
}

// Add returns the sum of two quantities.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Sub returns the difference of two quantities.
// Fails with a range error instead of producing a negative count.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return Quantity{}, errs.NewValueIsOutOfRangeError("quantity", q.value-other.value, 0, math.MaxInt)
	}
	return Quantity{value: q.value - other.value}, nil
}

// GreaterThan reports whether q is strictly greater than other.
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value > other.value
}

// Equals reports whether two quantities are the same count.
func (q Quantity) Equals(other Quantity) bool {
	return q.value == other.value
}

// String returns the quantity formatted as a plain number.
func (q Quantity) String() string {
	return fmt.Sprintf("%d", q.value)
}

// Weight represents a non-negative metal weight in grams.
// Weight is an immutable value object; comparisons use a milligram epsilon
// so repeated scale readings of the same batch compare equal.
type Weight struct {
	grams float64
}

// NewWeight creates a Weight from grams.
// Returns an error if the value is negative or not a finite number.
func NewWeight(grams float64) (Weight, error) {
	if math.IsNaN(grams) || math.IsInf(grams, 0) {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%f is not a finite number", grams))
	}
	if grams < 0 {
		return Weight{}, errs.NewValueIsOutOfRangeError("weight", grams, 0, math.MaxFloat64)
	}
	return Weight{grams: grams}, nil
}

// MustWeight creates a Weight and panics on an invalid value.
// Intended for constants and tests where the value is known to be valid.
func MustWeight(grams float64) Weight {
	w, err := NewWeight(grams)
	if err != nil {
		panic(err)
	}
	return w
}

// Grams returns the raw weight in grams.
func (w Weight) Grams() float64 {
	return w.grams
}

// IsZero reports whether the weight is zero within tolerance.
func (w Weight) IsZero() bool {
	return w.grams < weightEpsilon
}

// IsPositive reports whether the weight is greater than zero within tolerance.
func (w Weight) IsPositive() bool {
	return w.grams >= weightEpsilon
}

// Add returns the sum of two weights.
func (w Weight) Add(other Weight) Weight {
	return Weight{grams: w.grams + other.grams}
}

// Sub returns the difference of two weights.
// Fails with a range error instead of producing a negative weight.
// Differences within tolerance of zero collapse to exactly zero.
func (w Weight) Sub(other Weight) (Weight, error) {
	diff := w.grams - other.grams
	if diff < -weightEpsilon {
		return Weight{}, errs.NewValueIsOutOfRangeError("weight", diff, 0, math.MaxFloat64)
	}
	if diff < 0 {
		diff = 0
	}
	return Weight{grams: diff}, nil
}

// GreaterThan reports whether w is greater than other beyond tolerance.
func (w Weight) GreaterThan(other Weight) bool {
	return w.grams-other.grams > weightEpsilon
}

// Equals reports whether two weights are the same within tolerance.
func (w Weight) Equals(other Weight) bool {
	return math.Abs(w.grams-other.grams) < weightEpsilon
}

// String returns the weight formatted in grams with milligram precision.
func (w Weight) String() string {
	return fmt.Sprintf("%.3fg", w.grams)
}
