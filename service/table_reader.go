package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/financial-auditor/extractor"
)

// TableReader turns spreadsheet uploads into typed tables. The first row holds the
// column names.
type TableReader interface {
	ReadCSV(data []byte) (extractor.Table, error)
	ReadXLSX(data []byte) (extractor.Table, error)
}

type tableReader struct{}

func NewTableReader() TableReader {
	return &tableReader{}
}

func (r *tableReader) ReadCSV(data []byte) (extractor.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return extractor.Table{}, nil
	}
	if err != nil {
		return extractor.Table{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := newColumns(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return extractor.Table{}, fmt.Errorf("failed to read CSV file: %w", err)
		}

		for i := range columns {
			cell := extractor.TextCell("")
			if i < len(record) {
				cell = extractor.ParseCell(record[i])
			}
			columns[i].Cells = append(columns[i].Cells, cell)
		}
	}

	return extractor.Table{Columns: columns}, nil
}

// ReadXLSX reads the first worksheet. Cell types come from the workbook itself, so a
// number typed as text stays text, as it would in a dataframe.
func (r *tableReader) ReadXLSX(data []byte) (extractor.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return extractor.Table{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return extractor.Table{}, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return extractor.Table{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return extractor.Table{}, nil
	}

	dates := &dateStyles{f: f, known: map[int]bool{}}
	columns := newColumns(rows[0])
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := range columns {
			raw := ""
			if colIdx < len(row) {
				raw = row[colIdx]
			}

			cell, err := xlsxCell(f, dates, sheet, colIdx+1, rowIdx+1, raw)
			if err != nil {
				return extractor.Table{}, err
			}
			columns[colIdx].Cells = append(columns[colIdx].Cells, cell)
		}
	}

	return extractor.Table{Columns: columns}, nil
}

// xlsxCell types one cell. Dates are stored as serial numbers, so number cells are
// checked against their number format before being read as numbers.
func xlsxCell(f *excelize.File, dates *dateStyles, sheet string, col, row int, raw string) (extractor.Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return extractor.TextCell(""), nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return extractor.Cell{}, err
	}
	cellType, err := f.GetCellType(sheet, ref)
	if err != nil {
		return extractor.Cell{}, fmt.Errorf("failed to read cell type of %s: %w", ref, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return extractor.BoolCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		return extractor.DateCell(raw), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		isDate, err := dates.cell(sheet, ref)
		if err != nil {
			return extractor.Cell{}, err
		}
		if isDate {
			return extractor.DateCell(raw), nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return extractor.NumberCell(v), nil
		}
	}
	return extractor.TextCell(raw), nil
}

// dateStyles remembers which style indexes of a workbook carry a date or time format.
type dateStyles struct {
	f     *excelize.File
	known map[int]bool
}

func (d *dateStyles) cell(sheet, ref string) (bool, error) {
	idx, err := d.f.GetCellStyle(sheet, ref)
	if err != nil {
		return false, fmt.Errorf("failed to read cell style of %s: %w", ref, err)
	}
	if isDate, ok := d.known[idx]; ok {
		return isDate, nil
	}

	style, err := d.f.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("failed to read style %d: %w", idx, err)
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	d.known[idx] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id renders a date or time,
// including the East Asian date formats.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains a date or time token
// (y, m, d, h, s) outside quoted literals, escapes and bracketed colour or locale tags.
// Elapsed-time brackets such as [h] count as time.
func isDateFormatCode(code string) bool {
	// only the first section applies to positive numbers
	code, _, _ = strings.Cut(code, ";")
	code = strings.ToLower(code)

	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return false
			}
			tag := code[i+1 : i+1+end]
			if tag != "" && strings.Trim(tag, "hms") == "" {
				return true
			}
			i += end + 1
		case 'y', 'm', 'd', 'h', 's':
			return true
		}
	}
	return false
}

func newColumns(header []string) []extractor.Column {
	columns := make([]extractor.Column, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		columns[i].Name = name
	}
	return columns
}
