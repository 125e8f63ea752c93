// Package extractor turns extracted document content into a flat sample of numbers.
package extractor

import "fmt"

// NumericSample is the ordered sequence of numbers pulled out of one document.
// A zero-length sample is invalid.
type NumericSample []float64

// Validate reports an EmptyInputError for a zero-length sample.
func (s NumericSample) Validate() error {
	if len(s) == 0 {
		return &EmptyInputError{Source: "sample"}
	}
	return nil
}

// EmptyInputError is returned when extraction finds no numeric values at all.
type EmptyInputError struct {
	// Source names the input shape that produced nothing: "text", "table" or "sample".
	Source string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no numeric data found in %s input", e.Source)
}
