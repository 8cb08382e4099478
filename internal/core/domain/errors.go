package domain

import "errors"

var (
	// ErrInvalidAmount is returned when parsing an amount that is not a valid
	// STG number.
	ErrInvalidAmount = errors.New("amount must be a number with at most 6 decimals")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is not a valid base58 public key")
	// ErrAccountNotFound is returned by repositories when the requested account
	// does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSettingsNotFound ...
	ErrSettingsNotFound = errors.New("settings not found")
)
