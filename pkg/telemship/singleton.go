package telemship

import (
	"sync"
)

var (
	instanceMu sync.Mutex
	instance   *Telemship
)

// Initialize creates the process-wide shared instance. The first
// successful call wins; later calls return the existing instance and
// ignore their arguments. Use New() directly when you need more than
// one instance.
func Initialize(cfg Config, opts ...Option) (*Telemship, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return instance, nil
	}

	t, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	instance = t
	return t, nil
}

// Instance returns the shared instance created by Initialize, or nil if
// Initialize has not been called (or never succeeded).
func Instance() *Telemship {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}
