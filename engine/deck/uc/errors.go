package uc

import "errors"

var (
	// ErrMissingSource indicates no document source was supplied.
	ErrMissingSource = errors.New("document source is required")
	// ErrMissingRefs indicates the reference datasets were not loaded.
	ErrMissingRefs = errors.New("reference datasets are required")
)
