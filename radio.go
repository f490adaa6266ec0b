package podpower

import "errors"

// ErrScanAlreadyActive is returned by StartScan when the adapter reports
// a discovery session already in progress. It is never retried here.
var ErrScanAlreadyActive = errors.New("scan already active")

// ErrAdapterUnavailable is returned when no usable Bluetooth adapter can
// be reached.
var ErrAdapterUnavailable = errors.New("bluetooth adapter unavailable")

// ErrUnknownModel is returned by the model resolver for a well-formed
// packet whose model code is not in the table.
var ErrUnknownModel = errors.New("unknown model code")

// A Radio is a BLE adapter capable of passive discovery.
type Radio interface {
	// StartScan begins discovery and returns a handle for the session.
	// Fails with ErrScanAlreadyActive if a scan is in progress.
	StartScan() (ScanHandle, error)
}

// A ScanHandle is one discovery session on a Radio. Stop must be called
// exactly once per successful StartScan; implementations keep it
// idempotent so every exit path may call it safely.
type ScanHandle interface {
	// Poll returns the reports observed since the previous call. It is
	// non-blocking or short-blocking and safe to call every poll tick.
	Poll() ([]Report, error)

	// Stop ends the session and releases the adapter.
	Stop() error
}
