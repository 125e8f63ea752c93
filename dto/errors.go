package dto

import (
	"errors"
	"net/http"

	"github.com/Aashish23092/financial-auditor/benford"
	"github.com/Aashish23092/financial-auditor/extractor"
)

// NewErrorResponse classifies err into an HTTP status and the error envelope.
// Data-quality failures are user-actionable and map to 422.
func NewErrorResponse(err error) ErrorResponse {
	var (
		emptyErr    *extractor.EmptyInputError
		noDigitsErr *benford.NoValidDigitsError
	)

	switch {
	case errors.As(err, &emptyErr):
		return ErrorResponse{Error: CodeEmptyInput, Message: err.Error(), Code: http.StatusUnprocessableEntity}
	case errors.As(err, &noDigitsErr):
		return ErrorResponse{Error: CodeNoValidDigits, Message: err.Error(), Code: http.StatusUnprocessableEntity}
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrTooManyFiles), errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrInvalidBody):
		return ErrorResponse{Error: CodeInvalidRequest, Message: err.Error(), Code: http.StatusBadRequest}
	default:
		return ErrorResponse{Error: CodeAnalysisFailed, Message: err.Error(), Code: http.StatusInternalServerError}
	}
}
