// Package synclog provides structured event logging for subscription
// synchronization.
//
// Components emit Event values describing sync attempts, broker calls,
// and preference changes through the Logger interface. Applications pick
// the sink: NoopLogger (disabled), FileLogger (append-only CBOR file),
// SlogAdapter (console via log/slog), or MultiLogger (fan-out).
//
// # File Format
//
// FileLogger writes a stream of CBOR-encoded events with integer map
// keys. Reader streams them back, optionally filtered, for inspection
// of past sync behavior.
package synclog
