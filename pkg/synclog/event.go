package synclog

import "time"

// Event describes one synchronization-related occurrence.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"2,keyasint"`

	// Generation is the sync attempt's generation token, if the event
	// belongs to an attempt.
	Generation uint64 `cbor:"3,keyasint,omitempty"`

	// Topic is the broker topic involved, if any.
	Topic string `cbor:"4,keyasint,omitempty"`

	// Detail carries free-form context (preference key, batch size...).
	Detail string `cbor:"5,keyasint,omitempty"`

	// Error is the error message for failure events.
	Error string `cbor:"6,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySyncStarted indicates a sync attempt entered its debounce
	// window.
	CategorySyncStarted Category = 0

	// CategorySyncCancelled indicates an attempt was superseded by a
	// newer generation before executing.
	CategorySyncCancelled Category = 1

	// CategorySyncCompleted indicates an attempt finished all broker
	// calls successfully.
	CategorySyncCompleted Category = 2

	// CategorySyncFailed indicates a broker call failed during an
	// executing attempt.
	CategorySyncFailed Category = 3

	// CategoryBrokerSubscribe indicates a topic subscribe call.
	CategoryBrokerSubscribe Category = 4

	// CategoryBrokerUnsubscribe indicates a topic unsubscribe call
	// (single or batch).
	CategoryBrokerUnsubscribe Category = 5

	// CategoryPreferenceChanged indicates a preference mutation.
	CategoryPreferenceChanged Category = 6
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySyncStarted:
		return "SYNC_STARTED"
	case CategorySyncCancelled:
		return "SYNC_CANCELLED"
	case CategorySyncCompleted:
		return "SYNC_COMPLETED"
	case CategorySyncFailed:
		return "SYNC_FAILED"
	case CategoryBrokerSubscribe:
		return "BROKER_SUBSCRIBE"
	case CategoryBrokerUnsubscribe:
		return "BROKER_UNSUBSCRIBE"
	case CategoryPreferenceChanged:
		return "PREFERENCE_CHANGED"
	default:
		return "UNKNOWN"
	}
}
