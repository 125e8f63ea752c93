package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Request validation errors
var (
	ErrNoFile              = errors.New("file is required")
	ErrUnsupportedFileType = errors.New("invalid file type. Supported: PDF, CSV, XLSX, TXT, PNG, JPG, TIFF")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrTooManyFiles        = errors.New("too many files in batch")
	ErrEmptyText           = errors.New("text is required")
	ErrInvalidBody         = errors.New("invalid request body")
)

// SourceKind identifies how a document's numbers are extracted.
type SourceKind string

const (
	SourcePDF   SourceKind = "pdf"
	SourceCSV   SourceKind = "csv"
	SourceXLSX  SourceKind = "xlsx"
	SourceText  SourceKind = "text"
	SourceImage SourceKind = "image"
)

var sourceByExtension = map[string]SourceKind{
	".pdf":  SourcePDF,
	".csv":  SourceCSV,
	".xlsx": SourceXLSX,
	".txt":  SourceText,
	".png":  SourceImage,
	".jpg":  SourceImage,
	".jpeg": SourceImage,
	".tif":  SourceImage,
	".tiff": SourceImage,
}

// DetectSource maps a filename to its source kind by extension.
func DetectSource(filename string) (SourceKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := sourceByExtension[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	return kind, nil
}

// Document is an uploaded file held in memory
type Document struct {
	Filename string
	Data     []byte
	Password string
}

// AnalyzeRequest represents a single-file analysis upload
type AnalyzeRequest struct {
	File     *multipart.FileHeader
	Password string
}

// Validate validates the analysis request against the upload limit
func (r *AnalyzeRequest) Validate(maxSize int64) error {
	if r.File == nil {
		return ErrNoFile
	}
	return validateFile(r.File, maxSize)
}

// BatchRequest represents a multi-file analysis upload
type BatchRequest struct {
	Files []*multipart.FileHeader
}

// Validate checks every file and the batch size
func (r *BatchRequest) Validate(maxSize int64, maxFiles int) error {
	if len(r.Files) == 0 {
		return ErrNoFile
	}
	if maxFiles > 0 && len(r.Files) > maxFiles {
		return fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(r.Files), maxFiles)
	}
	for _, f := range r.Files {
		if err := validateFile(f, maxSize); err != nil {
			return fmt.Errorf("%s: %w", f.Filename, err)
		}
	}
	return nil
}

// TextRequest is the JSON body of a text analysis
type TextRequest struct {
	Text string `json:"text"`
}

func (r *TextRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

func validateFile(f *multipart.FileHeader, maxSize int64) error {
	if _, err := DetectSource(f.Filename); err != nil {
		return err
	}
	if maxSize > 0 && f.Size > maxSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size)
	}
	return nil
}
