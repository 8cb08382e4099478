package interfaces

// Service is implemented by every outer surface of the daemon exposing the
// ledger to clients. Start must not block.
type Service interface {
	Start() error
	Stop()
}
