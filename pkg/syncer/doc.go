// Package syncer keeps the broker's topic subscription for this device
// converged with the user's preference.
//
// # Debounce Protocol
//
// Every EnsureSync call claims the next value of a monotonic generation
// counter and waits out a fixed debounce window before touching the
// broker. After the wait, the call proceeds only when no newer call has
// claimed the counter; a superseded call returns without any broker I/O.
// Bursts of preference edits therefore collapse into a single broker
// round trip driven by the newest state.
//
// # Execution
//
// An attempt that survives the debounce check reads the preference and
// the device's current UTC offset, computes the desired topic, subscribes
// to it when the user is subscribed, and optionally unsubscribes from the
// rest of the topic universe so at most one topic stays active.
// Executing attempts are serialized; their broker calls never interleave.
//
// # Failure
//
// A broker error aborts the attempt without rollback. Calls already
// issued stand: both broker operations are idempotent, so the next
// attempt re-converges the subscription set. There is no internal retry.
package syncer
