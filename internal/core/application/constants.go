package application

const (
	// DefaultRequestRate is the max number of requests per second sent to the
	// node while bootstrapping accounts.
	DefaultRequestRate = 10
	// DefaultHistoryDepthDays is how far back in time history is requested.
	DefaultHistoryDepthDays = 365
	// DefaultHistoryLimit ...
	DefaultHistoryLimit = 1000

	subscriberBufferSize = 16
)
