package pubsub

import "errors"

var (
	// ErrStoreNotInitialized is returned if Init was never called on the store.
	ErrStoreNotInitialized = errors.New("pubsub store not initialized")
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrMissingEvent ...
	ErrMissingEvent = errors.New("missing event")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint, must be a valid URI")
)
