package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/financial-auditor/benford"
	"github.com/Aashish23092/financial-auditor/dto"
	"github.com/Aashish23092/financial-auditor/extractor"
)

func analysisFor(t *testing.T, sample extractor.NumericSample) *dto.AnalyzeResponse {
	t.Helper()

	a, err := benford.Analyze(sample)
	require.NoError(t, err)

	digit, delta := a.Result.LargestDeviation()
	return &dto.AnalyzeResponse{
		ID:               "3f1c",
		Filename:         "ledger.csv",
		Fingerprint:      "00000000deadbeef",
		Source:           dto.SourceCSV,
		Valid:            a.Valid,
		Zeros:            a.Zeros,
		Distribution:     a.Result,
		LargestDeviation: dto.DigitDeviation{Digit: digit, Delta: delta},
		ProcessedAt:      "2026-03-31T09:30:00Z",
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	r.now = func() time.Time { return time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC) }
	r.compress = false

	out, err := r.Render(analysisFor(t, extractor.NumericSample{142.5, 14.25, 9, 0}))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out[len(out)-16:]), "%%EOF")

	text := string(out)
	assert.Contains(t, text, "Document: ledger.csv")
	// gofpdf escapes parentheses in content streams
	assert.Contains(t, text, `Values analysed: 3 \(zeros excluded: 1, unreadable: 0\)`)
	assert.Contains(t, text, "Digit 1: Observed = 0.667, Expected = 0.301")
	assert.Contains(t, text, "Digit 9: Observed = 0.333, Expected = 0.046")
	assert.Contains(t, text, `Largest deviation: digit 1 \(+0.366\)`)
	assert.Contains(t, text, "End of Report")
}

func TestRenderConcentratedSample(t *testing.T) {
	// a single bar at 1.0 stretches the axis to its maximum
	out, err := NewRenderer().Render(analysisFor(t, extractor.NumericSample{7, 7, 7}))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderNil(t *testing.T) {
	_, err := NewRenderer().Render(nil)
	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	res := analysisFor(t, extractor.NumericSample{1, 0})
	lines := header(res)

	assert.Equal(t, "Document: ledger.csv", lines[0])
	assert.Contains(t, lines, "Values analysed: 1 (zeros excluded: 1, unreadable: 0)")

	res.Filename = ""
	assert.Equal(t, "Analysis ID: 3f1c", header(res)[0])
}
