package app

import "time"

// UploadEventEmitter is notified about upload outcomes. Implementations must
// be safe for concurrent use; every worker reports through the same emitter.
type UploadEventEmitter interface {
	OnUploadSuccess(names int, duration time.Duration)
	OnUploadError(err error, names int, retryable bool)
	OnRetry(attempt int, wait time.Duration)
}

type noopEmitter struct{}

func (noopEmitter) OnUploadSuccess(int, time.Duration) {}
func (noopEmitter) OnUploadError(error, int, bool)     {}
func (noopEmitter) OnRetry(int, time.Duration)         {}
