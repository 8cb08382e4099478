package nodechannel

import "errors"

var (
	// ErrMalformedMessage is returned when a node frame is not valid JSON.
	ErrMalformedMessage = errors.New("malformed node message")
	// ErrMissingDiscriminant is returned for frames with neither a type nor
	// a notification field.
	ErrMissingDiscriminant = errors.New("node message has no type")
	// ErrNotConnected is returned when sending a request while the channel
	// with the node is closed.
	ErrNotConnected = errors.New("not connected to node")
	// ErrMissingAddr ...
	ErrMissingAddr = errors.New("missing node address")
)
