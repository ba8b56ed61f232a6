// Package broker defines the push-broker client used to manage topic
// subscriptions, and provides an HTTP implementation of it.
//
// The broker exposes a per-device REST API: each device registers under
// an opaque token and adds or removes itself from named topics. The
// syncer only depends on the Client interface; tests substitute
// recording fakes.
//
// Brokers that support removing many topics in one round trip
// additionally implement BatchUnsubscriber; callers type-assert for it
// and fall back to per-topic calls otherwise.
package broker
