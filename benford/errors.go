package benford

import (
	"fmt"
	"strconv"
)

// NoValidDigitsError is returned when a non-empty sample contains no value with a
// readable leading digit, for instance a sample made only of zeros.
type NoValidDigitsError struct {
	Size      int
	Zeros     int
	Malformed int
}

func (e *NoValidDigitsError) Error() string {
	return fmt.Sprintf("no valid leading digits in %d values (%d zero, %d malformed)",
		e.Size, e.Zeros, e.Malformed)
}

// MalformedValueError marks a single value that has no canonical decimal form,
// such as an infinity. Such values are skipped, not fatal.
type MalformedValueError struct {
	Index int
	Value float64
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("value %s at index %d has no leading digit",
		strconv.FormatFloat(e.Value, 'g', -1, 64), e.Index)
}
