package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the fake broker saw.
type recordedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

func newFakeBroker(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestHTTPClientSubscribe(t *testing.T) {
	srv, requests := newFakeBroker(t, http.StatusNoContent)
	client := NewHTTPClient(HTTPConfig{
		BaseURL:     srv.URL,
		APIKey:      "secret-key",
		DeviceToken: "device-1",
	})

	require.NoError(t, client.Subscribe(context.Background(), "daily_05c"))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/v1/devices/device-1/topics/daily_05c", req.path)
	assert.Equal(t, "Bearer secret-key", req.auth)
}

func TestHTTPClientUnsubscribe(t *testing.T) {
	srv, requests := newFakeBroker(t, http.StatusOK)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	require.NoError(t, client.Unsubscribe(context.Background(), "daily_13n"))

	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodDelete, (*requests)[0].method)
	assert.Equal(t, "/v1/devices/device-1/topics/daily_13n", (*requests)[0].path)
}

// Unsubscribing from a topic the device doesn't hold is already the
// desired state.
func TestHTTPClientUnsubscribeNotFoundIsSuccess(t *testing.T) {
	srv, _ := newFakeBroker(t, http.StatusNotFound)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	assert.NoError(t, client.Unsubscribe(context.Background(), "daily_00c"))
}

func TestHTTPClientSubscribeNotFoundFails(t *testing.T) {
	srv, _ := newFakeBroker(t, http.StatusNotFound)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	err := client.Subscribe(context.Background(), "daily_00c")
	assert.ErrorIs(t, err, ErrBroker)
}

func TestHTTPClientUnauthorized(t *testing.T) {
	srv, _ := newFakeBroker(t, http.StatusUnauthorized)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	err := client.Subscribe(context.Background(), "daily_09c")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClientServerError(t *testing.T) {
	srv, _ := newFakeBroker(t, http.StatusInternalServerError)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	err := client.Unsubscribe(context.Background(), "daily_09c")
	assert.ErrorIs(t, err, ErrBroker)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestHTTPClientUnsubscribeBatch(t *testing.T) {
	srv, requests := newFakeBroker(t, http.StatusOK)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	topics := []string{"daily_00c", "daily_00n", "daily_01c"}
	require.NoError(t, client.UnsubscribeBatch(context.Background(), topics))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/v1/devices/device-1/topics:batchRemove", req.path)

	var payload struct {
		Topics []string `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(req.body, &payload))
	assert.Equal(t, topics, payload.Topics)
}

func TestHTTPClientUnsubscribeBatchEmpty(t *testing.T) {
	srv, requests := newFakeBroker(t, http.StatusOK)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	require.NoError(t, client.UnsubscribeBatch(context.Background(), nil))
	assert.Empty(t, *requests, "empty batch must not hit the broker")
}

func TestHTTPClientGeneratesDeviceToken(t *testing.T) {
	client := NewHTTPClient(HTTPConfig{BaseURL: "http://broker.invalid"})
	assert.NotEmpty(t, client.DeviceToken())

	other := NewHTTPClient(HTTPConfig{BaseURL: "http://broker.invalid"})
	assert.NotEqual(t, client.DeviceToken(), other.DeviceToken())
}

func TestHTTPClientContextCancellation(t *testing.T) {
	srv, _ := newFakeBroker(t, http.StatusOK)
	client := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, DeviceToken: "device-1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Subscribe(ctx, "daily_05c")
	assert.ErrorIs(t, err, context.Canceled)
}
