// Package benford compares the first-significant-digit distribution of a numeric sample
// against the frequencies predicted by Benford's Law.
//
// The package performs no I/O and keeps no state between calls, so Analyze may be called
// from any number of goroutines.
package benford

import (
	"errors"
	"math"
	"strconv"
)

// NumDigits is the number of possible leading significant digits, 1 through 9.
const NumDigits = 9

var errZero = errors.New("zero has no leading significant digit")

// LeadingDigit returns the first significant digit of v, ignoring sign and magnitude.
//
// The value is rendered in the shortest scientific form that round-trips to the same
// float64, which normalises the mantissa into [1, 10): 0.0042 becomes "4.2e-03" and
// 420000 becomes "4.2e+05". The first character of that form is never a zero and
// agrees with the decimal the value was parsed from.
func LeadingDigit(v float64) (int, error) {
	if v == 0 {
		return 0, errZero
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MalformedValueError{Value: v}
	}

	s := strconv.FormatFloat(math.Abs(v), 'e', -1, 64)
	if c := s[0]; c >= '1' && c <= '9' {
		return int(c - '0'), nil
	}
	return 0, &MalformedValueError{Value: v}
}

var expectedFrequencies = func() [NumDigits]float64 {
	var f [NumDigits]float64
	for d := 1; d <= NumDigits; d++ {
		f[d-1] = math.Log10(1 + 1/float64(d))
	}
	return f
}()

// ExpectedFrequencies returns the Benford proportions log10(1 + 1/d) for d = 1..9.
func ExpectedFrequencies() [NumDigits]float64 {
	return expectedFrequencies
}
