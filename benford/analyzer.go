package benford

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/Aashish23092/financial-auditor/extractor"
)

// Histogram counts occurrences of each leading digit; index 0 holds digit 1.
type Histogram [NumDigits]int

// Count returns the occurrences of digit d, or 0 when d is outside 1..9.
func (h Histogram) Count(d int) int {
	if d < 1 || d > NumDigits {
		return 0
	}
	return h[d-1]
}

// Total returns the number of values tabulated.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// DistributionResult pairs the observed leading-digit frequencies of a sample with the
// Benford expectation. Both arrays are indexed by digit-1 and each sums to 1.
type DistributionResult struct {
	Observed [NumDigits]float64 `json:"observed_frequency"`
	Expected [NumDigits]float64 `json:"expected_frequency"`
}

// Analysis is the outcome of a successful Analyze call.
type Analysis struct {
	Result    DistributionResult
	Histogram Histogram
	// Valid is the number of values that contributed a leading digit.
	Valid int
	Zeros int
	// Skipped lists values that were neither zero nor readable.
	Skipped []*MalformedValueError
}

// Analyze tabulates the leading digits of sample and compares them with Benford's Law.
//
// Zeros are excluded and malformed values are skipped one by one. An empty sample
// yields an *extractor.EmptyInputError; a sample with no usable value yields a
// *NoValidDigitsError.
func Analyze(sample extractor.NumericSample) (*Analysis, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}

	a := &Analysis{}
	for i, v := range sample {
		if v == 0 {
			a.Zeros++
			continue
		}

		d, err := LeadingDigit(v)
		if err != nil {
			var malformed *MalformedValueError
			if !errors.As(err, &malformed) {
				return nil, fmt.Errorf("leading digit of value %d: %w", i, err)
			}
			malformed.Index = i
			a.Skipped = append(a.Skipped, malformed)
			continue
		}
		a.Histogram[d-1]++
	}

	a.Valid = a.Histogram.Total()
	if a.Valid == 0 {
		return nil, &NoValidDigitsError{
			Size:      len(sample),
			Zeros:     a.Zeros,
			Malformed: len(a.Skipped),
		}
	}

	total := float64(a.Valid)
	for d, c := range a.Histogram {
		a.Result.Observed[d] = float64(c) / total
	}
	a.Result.Expected = ExpectedFrequencies()

	return a, nil
}

// ChartData is what a bar-plus-line chart needs: x positions 1..9, observed bar
// heights and the expected curve.
type ChartData struct {
	Digits   [NumDigits]int     `json:"digits"`
	Observed [NumDigits]float64 `json:"observed"`
	Expected [NumDigits]float64 `json:"expected"`
}

// Chart returns the chart series for r.
func (r DistributionResult) Chart() ChartData {
	c := ChartData{Observed: r.Observed, Expected: r.Expected}
	for i := range c.Digits {
		c.Digits[i] = i + 1
	}
	return c
}

// Lines renders one "Digit d: Observed = X.XXX, Expected = Y.YYY" line per digit.
func (r DistributionResult) Lines() []string {
	lines := make([]string, NumDigits)
	for i := range lines {
		lines[i] = fmt.Sprintf("Digit %d: Observed = %.3f, Expected = %.3f",
			i+1, r.Observed[i], r.Expected[i])
	}
	return lines
}

// Deviations returns observed minus expected frequency per digit.
func (r DistributionResult) Deviations() [NumDigits]float64 {
	var dev [NumDigits]float64
	floats.SubTo(dev[:], r.Observed[:], r.Expected[:])
	return dev
}

// LargestDeviation returns the digit whose observed frequency is furthest from the
// expectation, and the signed gap.
func (r DistributionResult) LargestDeviation() (int, float64) {
	dev := r.Deviations()

	abs := make([]float64, NumDigits)
	for i, v := range dev {
		if v < 0 {
			v = -v
		}
		abs[i] = v
	}

	i := floats.MaxIdx(abs)
	return i + 1, dev[i]
}
