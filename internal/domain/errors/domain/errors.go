// Package domain provides domain-specific error definitions and utilities.
package domain

import "errors"

// Script loading errors.
var (
	ErrParse    = errors.New("script could not be parsed")
	ErrEncoding = errors.New("script is not valid UTF-8")
)

// Traversal errors.
var (
	ErrTraversalDepthExceeded = errors.New("traversal depth exceeded")
	ErrNilTree                = errors.New("script tree is nil")
)
