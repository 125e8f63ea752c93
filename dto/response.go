package dto

import (
	"github.com/Aashish23092/financial-auditor/benford"
)

// Error codes returned in ErrorResponse.Error
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeNoValidDigits  = "NO_VALID_DIGITS"
	CodeAnalysisFailed = "ANALYSIS_FAILED"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SampleSummary describes the extracted numbers before digit analysis
type SampleSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// DigitDeviation is the digit with the widest observed-minus-expected gap
type DigitDeviation struct {
	Digit int     `json:"digit"`
	Delta float64 `json:"delta"`
}

// SkippedValue is a value dropped because it has no leading digit
type SkippedValue struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// AnalyzeResponse is the result of a Benford analysis of one document
type AnalyzeResponse struct {
	ID               string                     `json:"id"`
	Filename         string                     `json:"filename,omitempty"`
	Fingerprint      string                     `json:"fingerprint"`
	Source           SourceKind                 `json:"source"`
	OCRConfidence    float64                    `json:"ocr_confidence,omitempty"`
	Sample           SampleSummary              `json:"sample"`
	Zeros            int                        `json:"zeros"`
	Valid            int                        `json:"valid"`
	Skipped          []SkippedValue             `json:"skipped,omitempty"`
	Histogram        map[int]int                `json:"histogram"`
	Distribution     benford.DistributionResult `json:"distribution"`
	Deviations       [benford.NumDigits]float64 `json:"deviations"`
	LargestDeviation DigitDeviation             `json:"largest_deviation"`
	Chart            benford.ChartData          `json:"chart"`
	ProcessedAt      string                     `json:"processed_at"`
}

// BatchItem is the outcome for one file of a batch
type BatchItem struct {
	Filename string           `json:"filename"`
	Result   *AnalyzeResponse `json:"result,omitempty"`
	Error    *ErrorResponse   `json:"error,omitempty"`
}

// BatchResponse is the final response structure of a batch analysis
type BatchResponse struct {
	Items       []BatchItem `json:"items"`
	Succeeded   int         `json:"succeeded"`
	Failed      int         `json:"failed"`
	ProcessedAt string      `json:"processed_at"`
}
