package extractor

import (
	"math"
	"regexp"
	"strconv"
)

// numberPattern matches unsigned integers and decimals with a fractional part.
// Signs, thousands separators and exponents are not recognised, so "-42" yields 42
// and "1,234.56" yields 1 and 234.56. Digits inside words ("INV2024") still match.
var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// FromText extracts every decimal number found in free-form text, in order of appearance.
func FromText(text string) (NumericSample, error) {
	matches := numberPattern.FindAllString(text, -1)

	sample := make(NumericSample, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsInf(v, 0) {
			// out of float64 range
			continue
		}
		sample = append(sample, v)
	}

	if len(sample) == 0 {
		return nil, &EmptyInputError{Source: "text"}
	}
	return sample, nil
}
