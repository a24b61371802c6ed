// Package log provides a logging abstraction for taxonsync components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. Default implementations are provided for zerolog
// and a no-op logger for testing.
//
// # Usage
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or build one from CLI settings:
//
//	zl, err := log.NewZerolog(os.Stderr, "json", "debug")
//
// Use the no-op logger for testing:
//
//	logger := log.NewNoopLogger()
//
// Loggers derived with With carry their fields on every message, which is
// how a sync run attaches its run_id.
package log
