package benford

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/Aashish23092/financial-auditor/extractor"
)

const tolerance = 1e-9

func TestLeadingDigit(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{4.2, 4},
		{42, 4},
		{0.042, 4},
		{420000, 4},
		{0.0042, 4},
		{-42, 4},
		{1e-5, 1},
		{3e-7, 3},
		{9.999, 9},
		{1, 1},
		{100, 1},
		{0.1, 1},
		{math.SmallestNonzeroFloat64, 5},
		{math.MaxFloat64, 1},
		{142.50, 1},
	}

	for _, tt := range tests {
		got, err := LeadingDigit(tt.in)
		require.NoError(t, err, "value %v", tt.in)
		assert.Equal(t, tt.want, got, "value %v", tt.in)
	}
}

func TestLeadingDigitRejects(t *testing.T) {
	_, err := LeadingDigit(0)
	assert.Error(t, err)

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := LeadingDigit(v)
		var malformed *MalformedValueError
		assert.ErrorAs(t, err, &malformed, "value %v", v)
	}
}

func TestExpectedFrequencies(t *testing.T) {
	want := [NumDigits]float64{
		math.Log10(2), math.Log10(1.5), math.Log10(4.0 / 3), math.Log10(1.25), math.Log10(1.2),
		math.Log10(7.0 / 6), math.Log10(8.0 / 7), math.Log10(9.0 / 8), math.Log10(10.0 / 9),
	}

	got := ExpectedFrequencies()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tolerance, "digit %d", i+1)
	}
	assert.InDelta(t, 1.0, floats.Sum(got[:]), tolerance)
}

func TestAnalyzeSingleDigitConcentration(t *testing.T) {
	for d := 1; d <= NumDigits; d++ {
		sample := make(extractor.NumericSample, 10)
		for i := range sample {
			sample[i] = float64(d)
		}

		a, err := Analyze(sample)
		require.NoError(t, err)
		assert.Equal(t, 10, a.Histogram.Count(d))

		for i, f := range a.Result.Observed {
			if i+1 == d {
				assert.Equal(t, 1.0, f)
			} else {
				assert.Equal(t, 0.0, f)
			}
		}
	}
}

func TestAnalyzeScaleAndSignInvariance(t *testing.T) {
	for _, v := range []float64{4.2, 42, 0.042, 420000, -42, -0.0042} {
		a, err := Analyze(extractor.NumericSample{v})
		require.NoError(t, err)
		assert.Equal(t, 1.0, a.Result.Observed[3], "value %v", v)
	}
}

func TestAnalyzeExcludesZeros(t *testing.T) {
	a, err := Analyze(extractor.NumericSample{0, 0, 5})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Valid)
	assert.Equal(t, 2, a.Zeros)
	assert.Equal(t, 1, a.Histogram.Total())
	assert.Equal(t, 1.0, a.Result.Observed[4])
}

func TestAnalyzeSkipsMalformed(t *testing.T) {
	a, err := Analyze(extractor.NumericSample{math.Inf(1), 7, math.NaN()})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Valid)
	require.Len(t, a.Skipped, 2)
	assert.Equal(t, 0, a.Skipped[0].Index)
	assert.Equal(t, 2, a.Skipped[1].Index)
	assert.Equal(t, 1.0, a.Result.Observed[6])
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(extractor.NumericSample{})
	var emptyErr *extractor.EmptyInputError
	assert.ErrorAs(t, err, &emptyErr)

	_, err = Analyze(extractor.NumericSample{0, 0})
	var noDigits *NoValidDigitsError
	require.ErrorAs(t, err, &noDigits)
	assert.Equal(t, 2, noDigits.Size)
	assert.Equal(t, 2, noDigits.Zeros)

	_, err = Analyze(extractor.NumericSample{0, math.Inf(-1)})
	require.ErrorAs(t, err, &noDigits)
	assert.Equal(t, 1, noDigits.Malformed)
}

func TestAnalyzeFrequenciesSumToOne(t *testing.T) {
	sample := extractor.NumericSample{}
	for i := 1; i <= 997; i++ {
		sample = append(sample, float64(i*i)*0.37)
	}

	a, err := Analyze(sample)
	require.NoError(t, err)
	assert.Equal(t, len(sample), a.Valid)
	assert.InDelta(t, 1.0, floats.Sum(a.Result.Observed[:]), tolerance)
	assert.InDelta(t, 1.0, floats.Sum(a.Result.Expected[:]), tolerance)
}

func TestAnalyzeIdempotent(t *testing.T) {
	sample := extractor.NumericSample{12.5, 0.031, 780, 1999, 2.2, 0, 61, 45000}

	first, err := Analyze(sample)
	require.NoError(t, err)
	second, err := Analyze(sample)
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.Histogram, second.Histogram)
}

func TestAnalyzeInvoiceText(t *testing.T) {
	sample, err := extractor.FromText("Invoice total: 142.50, tax 14.25, fee 9")
	require.NoError(t, err)

	a, err := Analyze(sample)
	require.NoError(t, err)

	assert.Equal(t, Histogram{2, 0, 0, 0, 0, 0, 0, 0, 1}, a.Histogram)
	assert.InDelta(t, 2.0/3, a.Result.Observed[0], tolerance)
	assert.InDelta(t, 1.0/3, a.Result.Observed[8], tolerance)
	for d := 2; d <= 8; d++ {
		assert.Equal(t, 0.0, a.Result.Observed[d-1])
	}
}

func TestHistogramCountOutOfRange(t *testing.T) {
	h := Histogram{1, 2, 3}
	assert.Equal(t, 0, h.Count(0))
	assert.Equal(t, 0, h.Count(10))
	assert.Equal(t, 2, h.Count(2))
	assert.Equal(t, 6, h.Total())
}
