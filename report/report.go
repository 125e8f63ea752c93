// Package report renders the downloadable audit report of a Benford analysis.
package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Aashish23092/financial-auditor/benford"
	"github.com/Aashish23092/financial-auditor/dto"
)

const title = "Audit Report Based on Benford's Law"

// chart geometry, millimetres
const (
	chartLeft   = 30.0
	chartWidth  = 150.0
	chartHeight = 70.0
)

// Renderer writes A4 PDF reports.
type Renderer struct {
	now      func() time.Time
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now, compress: true}
}

// Render produces the PDF bytes for a completed analysis.
func (r *Renderer) Render(res *dto.AnalyzeResponse) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("no analysis to report")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(r.now())
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range header(res) {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range res.Distribution.Lines() {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	drawChart(pdf, res.Distribution.Chart())

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Largest deviation: digit %d (%+.3f)",
		res.LargestDeviation.Digit, res.LargestDeviation.Delta), "", 1, "L", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(0, 10, "End of Report", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func header(res *dto.AnalyzeResponse) []string {
	lines := []string{}
	if res.Filename != "" {
		lines = append(lines, "Document: "+res.Filename)
	}
	lines = append(lines,
		"Analysis ID: "+res.ID,
		"Fingerprint: "+res.Fingerprint,
		fmt.Sprintf("Source: %s", res.Source),
		fmt.Sprintf("Values analysed: %d (zeros excluded: %d, unreadable: %d)",
			res.Valid, res.Zeros, len(res.Skipped)),
		"Processed at: "+res.ProcessedAt,
	)
	return lines
}

// drawChart draws observed frequencies as bars with the expected curve on top,
// starting at the current position, and moves the cursor below the chart.
func drawChart(pdf *gofpdf.Fpdf, c benford.ChartData) {
	top := pdf.GetY() + 4
	bottom := top + chartHeight
	slot := chartWidth / benford.NumDigits

	peak := 0.0
	for i := range c.Observed {
		peak = math.Max(peak, math.Max(c.Observed[i], c.Expected[i]))
	}
	// round the axis up to the next 0.1
	yMax := math.Ceil(peak*10) / 10
	if yMax == 0 {
		yMax = 0.1
	}
	scale := chartHeight / yMax

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Line(chartLeft, top, chartLeft, bottom)
	pdf.Line(chartLeft, bottom, chartLeft+chartWidth, bottom)
	for tick := 0.0; tick <= yMax+1e-9; tick += 0.1 {
		y := bottom - tick*scale
		pdf.Line(chartLeft-1.5, y, chartLeft, y)
		pdf.Text(chartLeft-9, y+1, fmt.Sprintf("%.1f", tick))
	}

	pdf.SetFillColor(90, 130, 200)
	for i, f := range c.Observed {
		x := chartLeft + float64(i)*slot + slot*0.2
		h := f * scale
		if h > 0 {
			pdf.Rect(x, bottom-h, slot*0.6, h, "F")
		}
		pdf.Text(chartLeft+float64(i)*slot+slot/2-1, bottom+4, fmt.Sprintf("%d", c.Digits[i]))
	}

	pdf.SetDrawColor(200, 30, 30)
	pdf.SetFillColor(200, 30, 30)
	pdf.SetLineWidth(0.5)
	for i := range c.Expected {
		x := chartLeft + float64(i)*slot + slot/2
		y := bottom - c.Expected[i]*scale
		if i > 0 {
			pdf.Line(x-slot, bottom-c.Expected[i-1]*scale, x, y)
		}
		pdf.Circle(x, y, 0.9, "F")
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Text(chartLeft+chartWidth/2-10, bottom+9, "Leading Digit")
	pdf.SetFillColor(90, 130, 200)
	pdf.Rect(chartLeft+chartWidth-40, top, 4, 3, "F")
	pdf.Text(chartLeft+chartWidth-34, top+2.5, "Observed")
	pdf.SetFillColor(200, 30, 30)
	pdf.Rect(chartLeft+chartWidth-40, top+5, 4, 3, "F")
	pdf.Text(chartLeft+chartWidth-34, top+7.5, "Expected")

	pdf.SetY(bottom + 14)
}
