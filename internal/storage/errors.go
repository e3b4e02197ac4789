package storage

import (
	"errors"
	"net/http"
)

// FileOperationError is the typed error raised at the file-store boundary.
// It carries an HTTP-like status code so that handlers can map failures to
// responses without inspecting underlying I/O errors.
type FileOperationError struct {
	Status  int
	Message string
	Err     error
}

func (e *FileOperationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *FileOperationError) Unwrap() error {
	return e.Err
}

// NewFileOperationError builds a FileOperationError with the given status.
func NewFileOperationError(status int, message string, err error) *FileOperationError {
	return &FileOperationError{Status: status, Message: message, Err: err}
}

// StatusOf extracts the HTTP status from an error, defaulting to 500 for
// anything that is not a FileOperationError.
func StatusOf(err error) int {
	var fileErr *FileOperationError
	if errors.As(err, &fileErr) {
		return fileErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf extracts the user-facing message from an error.
func MessageOf(err error) string {
	var fileErr *FileOperationError
	if errors.As(err, &fileErr) {
		return fileErr.Message
	}
	return "internal server error"
}
