package application

import "errors"

var (
	// ErrAccountNotFound is returned when a local intent refers to an account
	// missing from the current snapshot.
	ErrAccountNotFound = errors.New("account not found")
	// ErrServiceNotStarted ...
	ErrServiceNotStarted = errors.New("ledger service is not started")
	// ErrServiceAlreadyStarted ...
	ErrServiceAlreadyStarted = errors.New("ledger service is already started")
	// ErrInvalidAccountName ...
	ErrInvalidAccountName = errors.New("account name must not be empty")
	// ErrInvalidAutoLockTimeout ...
	ErrInvalidAutoLockTimeout = errors.New("auto lock timeout must be a positive number of minutes")
	// ErrMissingErrorMessage ...
	ErrMissingErrorMessage = errors.New("error message must not be empty")
)
