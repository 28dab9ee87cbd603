// Package nicescale rounds raw numeric ranges to human-friendly axis bounds.
package nicescale

import "math"

// DefaultFractions are the leading digits allowed for value axes.
var DefaultFractions = []float64{1, 2, 2.5, 3, 5, 6, 10}

// IndexFractions are the leading digits allowed for label index axes.
//
// Index spacing is always a whole number of samples once the magnitude
// is at least one, so fractional digits are left out.
var IndexFractions = []float64{1, 2, 3, 4, 6, 8, 10}

// Result is a quantized range.
//
// Spacing is zero when the input range is empty; such a result has no ticks.
type Result struct {
	Low     float64
	High    float64
	Spacing float64
}

// Degenerate reports whether the result carries no usable tick spacing.
func (r Result) Degenerate() bool {
	return r.Spacing == 0
}

// Ticks returns Low, Low+Spacing, ..., High.
func (r Result) Ticks() []float64 {
	if r.Degenerate() {
		return nil
	}
	n := int(math.Round((r.High-r.Low)/r.Spacing)) + 1
	ticks := make([]float64, n)
	for i := range ticks {
		ticks[i] = r.Low + float64(i)*r.Spacing
	}
	return ticks
}

// Quantize picks a nice spacing for roughly desiredTicks ticks between low
// and high and widens the range outward to multiples of it.
//
// The spacing is the allowed fraction, scaled to the magnitude of
// (high-low)/(desiredTicks-1), that is nearest to that target. Ties go to
// the larger candidate. Fractions must be ascending and non-empty.
func Quantize(low, high float64, desiredTicks int, fractions []float64) Result {
	delta := high - low
	if !(delta > 0) || math.IsInf(delta, 0) || len(fractions) == 0 {
		return Result{Low: low, High: low}
	}
	desiredTicks = max(desiredTicks, 2)

	spacing := round(delta/float64(desiredTicks-1), fractions)
	if !(spacing > 0) {
		return Result{Low: low, High: low}
	}

	return Result{
		Low:     math.Floor(low/spacing) * spacing,
		High:    math.Ceil(high/spacing) * spacing,
		Spacing: spacing,
	}
}

// round snaps x to the nearest fraction of its decimal magnitude.
//
// Log10 may land just below an integer for an exact power of ten, which
// drops x one decade; the fraction tables end in 10 so that x still
// reaches itself from there.
func round(x float64, fractions []float64) float64 {
	exp := int(math.Floor(math.Log10(x)))
	for i := 0; i < len(fractions)-1; i++ {
		candidate := scale(fractions[i], exp)
		cutoff := (candidate + scale(fractions[i+1], exp)) / 2
		if x < cutoff {
			return candidate
		}
	}
	return scale(fractions[len(fractions)-1], exp)
}

// scale returns f*10^exp.
//
// Negative exponents divide by an exact power of ten so that the same
// decimal value comes out identically whichever magnitude produced it
// (10*10^-2 and 1*10^-1 are both the double nearest to 0.1).
func scale(f float64, exp int) float64 {
	if exp >= 0 {
		return f * math.Pow10(exp)
	}
	return f / math.Pow10(-exp)
}
