package broker

import (
	"context"
	"errors"
)

// Broker errors.
var (
	// ErrUnauthorized indicates the broker rejected the API credentials.
	ErrUnauthorized = errors.New("broker rejected credentials")

	// ErrBroker indicates any other broker-side failure.
	ErrBroker = errors.New("broker request failed")
)

// Client manages this device's topic subscriptions at the broker.
// Both operations are idempotent: subscribing to a topic the device
// already holds, or unsubscribing from one it doesn't, must succeed.
type Client interface {
	// Subscribe adds the device to topic.
	Subscribe(ctx context.Context, topic string) error

	// Unsubscribe removes the device from topic.
	Unsubscribe(ctx context.Context, topic string) error
}

// BatchUnsubscriber is implemented by brokers that can remove the device
// from many topics in a single round trip.
type BatchUnsubscriber interface {
	// UnsubscribeBatch removes the device from every listed topic.
	UnsubscribeBatch(ctx context.Context, topics []string) error
}
