package entities

import "errors"

var (
	// ErrMissingParams is returned when a quote request lacks a required field
	ErrMissingParams = errors.New("inputToken, outputToken, and inputAmount are required")
	// ErrInvalidAmount is returned when an amount is not a positive integer
	ErrInvalidAmount = errors.New("inputAmount must be a positive integer")
)
