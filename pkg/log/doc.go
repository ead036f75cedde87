// Package log provides a pluggable structured logging abstraction.
//
// The delivery agent never logs through a concrete library directly;
// it takes a [Logger] and emits typed [Field] values. Production code
// wires the zerolog adapter, embedders that want silence get the noop
// logger, and tests can capture log calls with a fake.
//
// # Usage
//
// Create a zerolog-backed logger with console output:
//
//	logger := log.NewZerologAdapter()
//	logger.Warn("send failed", log.String("record", rec.Name), log.Err(err))
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
package log
