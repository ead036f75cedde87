package telemship

import (
	"github.com/bft-labs/telemship/internal/app"
	"github.com/bft-labs/telemship/internal/domain"
)

// State represents the lifecycle state of a Telemship instance.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// DeliveredEvent describes a batch the service accepted.
// The record's file has been deleted by the time the event fires.
type DeliveredEvent struct {
	Record    string
	BytesSent int
}

// DeliveryErrorEvent describes a failed transmission attempt.
// Retryable reports whether the record was kept for a later retry.
type DeliveryErrorEvent struct {
	Record    string
	Error     error
	Retryable bool
}

// EventHandler receives telemship events.
// Handlers are called synchronously from agent goroutines and must not
// block; hand heavy work off to another goroutine.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnDelivered(event DeliveredEvent)
	OnDeliveryError(event DeliveryErrorEvent)
}

// BaseEventHandler provides no-op defaults for EventHandler. Embed it
// to implement only the events you care about.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)     {}
func (BaseEventHandler) OnDelivered(DeliveredEvent)         {}
func (BaseEventHandler) OnDeliveryError(DeliveryErrorEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnDelivered(rec domain.Record, bytes int) {
	if e.handler == nil {
		return
	}
	e.handler.OnDelivered(DeliveredEvent{
		Record:    rec.Name,
		BytesSent: bytes,
	})
}

func (e *eventEmitterWrapper) OnDeliveryError(rec domain.Record, err error, retryable bool) {
	if e.handler == nil {
		return
	}
	e.handler.OnDeliveryError(DeliveryErrorEvent{
		Record:    rec.Name,
		Error:     err,
		Retryable: retryable,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
