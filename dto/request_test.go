package dto

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aashish23092/financial-auditor/benford"
	"github.com/Aashish23092/financial-auditor/extractor"
)

func TestDetectSource(t *testing.T) {
	cases := map[string]SourceKind{
		"ledger.CSV":     SourceCSV,
		"q3.xlsx":        SourceXLSX,
		"invoice.pdf":    SourcePDF,
		"notes.txt":      SourceText,
		"scan.JPEG":      SourceImage,
		"receipt.tiff":   SourceImage,
		"dir/report.png": SourceImage,
	}
	for name, want := range cases {
		got, err := DetectSource(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := DetectSource("macro.xlsm")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	_, err = DetectSource("README")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestAnalyzeRequestValidate(t *testing.T) {
	assert.ErrorIs(t, (&AnalyzeRequest{}).Validate(0), ErrNoFile)

	req := &AnalyzeRequest{File: &multipart.FileHeader{Filename: "a.csv", Size: 2048}}
	assert.NoError(t, req.Validate(4096))
	assert.ErrorIs(t, req.Validate(1024), ErrFileTooLarge)

	req.File.Filename = "a.exe"
	assert.ErrorIs(t, req.Validate(4096), ErrUnsupportedFileType)
}

func TestBatchRequestValidate(t *testing.T) {
	files := []*multipart.FileHeader{
		{Filename: "a.csv", Size: 10},
		{Filename: "b.pdf", Size: 10},
	}

	assert.ErrorIs(t, (&BatchRequest{}).Validate(100, 5), ErrNoFile)
	assert.NoError(t, (&BatchRequest{Files: files}).Validate(100, 5))
	assert.ErrorIs(t, (&BatchRequest{Files: files}).Validate(100, 1), ErrTooManyFiles)

	files = append(files, &multipart.FileHeader{Filename: "c.doc", Size: 10})
	assert.ErrorIs(t, (&BatchRequest{Files: files}).Validate(100, 5), ErrUnsupportedFileType)
}

func TestTextRequestValidate(t *testing.T) {
	assert.ErrorIs(t, (&TextRequest{Text: " \n"}).Validate(), ErrEmptyText)
	assert.NoError(t, (&TextRequest{Text: "total 5"}).Validate())
}

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("wrapped: %w", &extractor.EmptyInputError{Source: "text"}), CodeEmptyInput, http.StatusUnprocessableEntity},
		{&benford.NoValidDigitsError{Size: 2, Zeros: 2}, CodeNoValidDigits, http.StatusUnprocessableEntity},
		{fmt.Errorf("x.doc: %w", ErrUnsupportedFileType), CodeInvalidRequest, http.StatusBadRequest},
		{fmt.Errorf("%w: unexpected EOF", ErrInvalidBody), CodeInvalidRequest, http.StatusBadRequest},
		{fmt.Errorf("disk on fire"), CodeAnalysisFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		resp := NewErrorResponse(tt.err)
		assert.Equal(t, tt.code, resp.Error)
		assert.Equal(t, tt.status, resp.Code)
		assert.Equal(t, tt.err.Error(), resp.Message)
	}
}
