package domain

import "errors"

var (
	// Client errors
	ErrClientNotFound    = errors.New("client not found")
	ErrDuplicatePhone    = errors.New("a client with this phone number already exists")
	ErrDuplicatePAN      = errors.New("a client with this PAN already exists")
	ErrDuplicateAadhar   = errors.New("a client with this Aadhar already exists")
	ErrInvalidClientName = errors.New("client name must not be empty")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidPAN        = errors.New("invalid PAN format")
	ErrInvalidAadhar     = errors.New("invalid Aadhar number")

	// Work transaction errors
	ErrWorkNotFound    = errors.New("work transaction not found")
	ErrInvalidAmount   = errors.New("amount must not be negative")
	ErrInvalidWorkDate = errors.New("work date must be a valid DD/MM/YYYY date")
	ErrNoWorkTypes     = errors.New("at least one work type is required")

	// History errors
	ErrInconsistentEntry = errors.New("balance change does not match balance transition")
)
