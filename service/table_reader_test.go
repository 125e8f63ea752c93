package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/financial-auditor/extractor"
)

func TestReadCSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfInvoice,Amount,,Paid\nINV-1, 120.50,3,yes\nINV-2,87\n")

	table, err := NewTableReader().ReadCSV(data)
	require.NoError(t, err)
	require.Len(t, table.Columns, 4)

	assert.Equal(t, "Invoice", table.Columns[0].Name)
	assert.Equal(t, "column_3", table.Columns[2].Name)
	assert.Equal(t, 2, table.Rows())

	assert.Equal(t, extractor.NumberCell(120.5), table.Columns[1].Cells[0])
	assert.Equal(t, extractor.CellEmpty, table.Columns[2].Cells[1].Kind)

	sample, err := extractor.FromTable(table)
	require.NoError(t, err)
	assert.Equal(t, extractor.NumericSample{120.5, 87, 3}, sample)
}

func TestReadCSVEmptyAndMalformed(t *testing.T) {
	table, err := NewTableReader().ReadCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Columns)

	_, err = NewTableReader().ReadCSV([]byte("a,b\n\"unterminated,1\n"))
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	booked := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := [][]any{
		{"Vendor", "Amount", "Approved", "Code", "Booked", "Due", "Net"},
		{"ACME", 142.5, true, "0042", booked, 45360, 1250.75},
		{"Globex", 9, false, "17", booked.AddDate(0, 0, 1), 45361, 38},
		{"Initech", nil, true, "33", booked.AddDate(0, 0, 2), 45362, nil},
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	dueFmt := "dd/mm/yyyy"
	due, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dueFmt})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "F2", "F4", due))

	netFmt := `"INR" #,##0.00;[Red]-#,##0.00`
	net, err := f.NewStyle(&excelize.Style{CustomNumFmt: &netFmt})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "G2", "G4", net))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := NewTableReader().ReadXLSX(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, table.Columns, 7)

	assert.True(t, table.Columns[1].IsNumeric(), "Amount")
	assert.False(t, table.Columns[2].IsNumeric(), "Approved")
	assert.False(t, table.Columns[3].IsNumeric(), "Code is stored as text")
	assert.False(t, table.Columns[4].IsNumeric(), "Booked holds dates")
	assert.Equal(t, extractor.CellDate, table.Columns[4].Cells[0].Kind)
	assert.False(t, table.Columns[5].IsNumeric(), "Due has a custom date format")
	assert.True(t, table.Columns[6].IsNumeric(), "Net has a custom number format")

	sample, err := extractor.FromTable(table)
	require.NoError(t, err)
	assert.Equal(t, extractor.NumericSample{142.5, 9, 1250.75, 38}, sample)
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"dd/mm/yyyy", true},
		{"mmm-yy", true},
		{"h:mm AM/PM", true},
		{"[h]:mm", true},
		{"[$-409]d-mmm-yyyy;@", true},
		{"#,##0.00", false},
		{"0.00E+00", false},
		{`"Days" 0`, false},
		{`0.0\h`, false},
		{"[Red]#,##0;[Blue]-#,##0", false},
		{"[$€-407] #,##0.00", false},
		{"@", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormatCode(tt.code))
		})
	}
}

func TestIsDateNumFmt(t *testing.T) {
	for _, id := range []int{14, 17, 22, 45, 47} {
		assert.True(t, isDateNumFmt(id), "id %d", id)
	}
	for _, id := range []int{0, 2, 4, 9, 11, 37, 44, 49} {
		assert.False(t, isDateNumFmt(id), "id %d", id)
	}
}

func TestReadXLSXInvalid(t *testing.T) {
	_, err := NewTableReader().ReadXLSX([]byte("not a zip"))
	assert.Error(t, err)
}
