package extractor

import (
	"math"
	"strconv"
	"strings"
)

// CellKind is the detected type of a single table cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellBool
	// CellDate is a date or time, which spreadsheets store as a serial number.
	CellDate
)

// Cell is one typed value of a table column.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NumberCell builds a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// TextCell builds a text cell. Blank text becomes an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

// BoolCell builds a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{Kind: CellBool, Text: strconv.FormatBool(b)}
}

// DateCell builds a date cell from its raw stored form.
func DateCell(raw string) Cell {
	return Cell{Kind: CellDate, Text: raw}
}

// ParseCell types a raw string the way a delimited-file reader sees it: blank is empty,
// anything strconv can read as a float is a number, everything else is text.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{Kind: CellEmpty}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberCell(v)
	}
	return Cell{Kind: CellText, Text: s}
}

// Column is a named sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// IsNumeric reports whether the column holds at least one number and nothing but
// numbers and empty cells. Boolean and date columns are not numeric.
func (c Column) IsNumeric() bool {
	numbers := 0
	for _, cell := range c.Cells {
		switch cell.Kind {
		case CellNumber:
			numbers++
		case CellEmpty:
		default:
			return false
		}
	}
	return numbers > 0
}

// Table is an ordered collection of named columns as produced by a spreadsheet or CSV reader.
type Table struct {
	Columns []Column
}

// NumericColumns returns the numeric columns in their original order.
func (t Table) NumericColumns() []Column {
	var cols []Column
	for _, c := range t.Columns {
		if c.IsNumeric() {
			cols = append(cols, c)
		}
	}
	return cols
}

// Rows returns the length of the longest column.
func (t Table) Rows() int {
	n := 0
	for _, c := range t.Columns {
		if len(c.Cells) > n {
			n = len(c.Cells)
		}
	}
	return n
}

// FromTable flattens the numeric columns of t, column by column, into one sample.
// Missing and NaN cells are dropped. Infinite values are kept for the analyzer to reject.
func FromTable(t Table) (NumericSample, error) {
	var sample NumericSample
	for _, col := range t.NumericColumns() {
		for _, cell := range col.Cells {
			if cell.Kind != CellNumber || math.IsNaN(cell.Number) {
				continue
			}
			sample = append(sample, cell.Number)
		}
	}

	if len(sample) == 0 {
		return nil, &EmptyInputError{Source: "table"}
	}
	return sample, nil
}
