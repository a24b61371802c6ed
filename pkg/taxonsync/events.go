package taxonsync

import (
	"time"

	"github.com/bft-labs/taxonsync/internal/app"
)

// UploadSuccessEvent is emitted after a job was stored.
type UploadSuccessEvent struct {
	Names    int
	Duration time.Duration
}

// UploadErrorEvent is emitted when a job is given up on.
type UploadErrorEvent struct {
	Error     error
	Names     int
	Retryable bool
}

// RetryEvent is emitted before a failed call is retried.
type RetryEvent struct {
	Attempt int
	Wait    time.Duration
}

// EventHandler receives upload events. Methods are called concurrently from
// worker goroutines and should return quickly.
type EventHandler interface {
	OnUploadSuccess(UploadSuccessEvent)
	OnUploadError(UploadErrorEvent)
	OnRetry(RetryEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnUploadSuccess(UploadSuccessEvent) {}
func (BaseEventHandler) OnUploadError(UploadErrorEvent)     {}
func (BaseEventHandler) OnRetry(RetryEvent)                 {}

// eventEmitterWrapper adapts EventHandler to the internal emitter and fans
// events out to the metrics recorder.
type eventEmitterWrapper struct {
	handler EventHandler
	others  []app.UploadEventEmitter
}

func (e *eventEmitterWrapper) OnUploadSuccess(names int, duration time.Duration) {
	for _, o := range e.others {
		o.OnUploadSuccess(names, duration)
	}
	if e.handler == nil {
		return
	}
	e.handler.OnUploadSuccess(UploadSuccessEvent{Names: names, Duration: duration})
}

func (e *eventEmitterWrapper) OnUploadError(err error, names int, retryable bool) {
	for _, o := range e.others {
		o.OnUploadError(err, names, retryable)
	}
	if e.handler == nil {
		return
	}
	e.handler.OnUploadError(UploadErrorEvent{Error: err, Names: names, Retryable: retryable})
}

func (e *eventEmitterWrapper) OnRetry(attempt int, wait time.Duration) {
	for _, o := range e.others {
		o.OnRetry(attempt, wait)
	}
	if e.handler == nil {
		return
	}
	e.handler.OnRetry(RetryEvent{Attempt: attempt, Wait: wait})
}
