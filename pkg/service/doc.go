// Package service wires the daily-push components into a running whole:
// preference store, preference cache, broker client, and the debounced
// subscription syncer.
//
// A Service owns the lifecycle. Start runs the startup reconciliation
// pass, which never strips other topics so a fresh process can't clear
// subscriptions another install still relies on. Preference mutations
// flow through the service, persist immediately, and trigger a full
// (cleanup-enabled) sync in the background; the caller is never blocked
// on broker round trips and local writes succeed even when the broker
// is unreachable.
package service
