package repository

import "errors"

var (
	// ErrDocumentNotFound is returned by progress backends when nothing was saved yet.
	ErrDocumentNotFound = errors.New("progress document not found")

	ErrContentUnavailable = errors.New("content unavailable")
	ErrInvalidCurriculum  = errors.New("invalid curriculum")
	ErrUnsupportedFormat  = errors.New("unsupported curriculum file format")
)
