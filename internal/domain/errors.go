package domain

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionEnded        = errors.New("session has ended")
	ErrExtractionFailed    = errors.New("document extraction failed")
	ErrExtractionPending   = errors.New("extraction already in progress for this document")
	ErrInvalidChoice       = errors.New("invalid choice")
	ErrUnexpectedInput     = errors.New("input does not match the current step")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
