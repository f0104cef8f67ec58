package errors

import "errors"

var (
	ErrNotFound = errors.New("availability profile not found")

	ErrInvalidOwnerID = errors.New("invalid owner ID")
)
