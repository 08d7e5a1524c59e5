package models

import "errors"

// Errors returned by every store implementation.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrAmbiguous = errors.New("more than one record matches")
)
