package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// defaultTimeout bounds a single broker round trip when the caller's
// context carries no deadline.
const defaultTimeout = 10 * time.Second

// HTTPConfig holds HTTP broker client configuration.
type HTTPConfig struct {
	// BaseURL is the broker API root, e.g. "https://push.example.com".
	BaseURL string

	// APIKey authenticates requests (sent as a bearer token).
	APIKey string

	// DeviceToken identifies this device at the broker. A random UUID
	// is generated when empty; persist it to keep a stable identity.
	DeviceToken string

	// Client is the underlying HTTP client. Defaults to one with a
	// request timeout when nil.
	Client *http.Client
}

// HTTPClient talks to a push broker over its per-device REST API:
//
//	PUT    {base}/v1/devices/{token}/topics/{topic}
//	DELETE {base}/v1/devices/{token}/topics/{topic}
//	POST   {base}/v1/devices/{token}/topics:batchRemove
type HTTPClient struct {
	baseURL     string
	apiKey      string
	deviceToken string
	client      *http.Client
}

// NewHTTPClient creates a broker client from cfg.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	token := cfg.DeviceToken
	if token == "" {
		token = uuid.NewString()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		deviceToken: token,
		client:      client,
	}
}

// DeviceToken returns the device identity used at the broker.
func (c *HTTPClient) DeviceToken() string {
	return c.deviceToken
}

// Subscribe adds the device to topic.
func (c *HTTPClient) Subscribe(ctx context.Context, topic string) error {
	if err := c.do(ctx, http.MethodPut, c.topicURL(topic), nil); err != nil {
		return fmt.Errorf("subscribe %q: %w", topic, err)
	}
	return nil
}

// Unsubscribe removes the device from topic. A broker 404 counts as
// success: the device not holding the topic is the desired state.
func (c *HTTPClient) Unsubscribe(ctx context.Context, topic string) error {
	if err := c.do(ctx, http.MethodDelete, c.topicURL(topic), nil); err != nil {
		return fmt.Errorf("unsubscribe %q: %w", topic, err)
	}
	return nil
}

// UnsubscribeBatch removes the device from every listed topic in one
// request.
func (c *HTTPClient) UnsubscribeBatch(ctx context.Context, topics []string) error {
	if len(topics) == 0 {
		return nil
	}

	body, err := json.Marshal(struct {
		Topics []string `json:"topics"`
	}{Topics: topics})
	if err != nil {
		return fmt.Errorf("encode batch unsubscribe: %w", err)
	}

	u := fmt.Sprintf("%s/v1/devices/%s/topics:batchRemove", c.baseURL, url.PathEscape(c.deviceToken))
	if err := c.do(ctx, http.MethodPost, u, body); err != nil {
		return fmt.Errorf("batch unsubscribe %d topics: %w", len(topics), err)
	}
	return nil
}

func (c *HTTPClient) topicURL(topic string) string {
	return fmt.Sprintf("%s/v1/devices/%s/topics/%s",
		c.baseURL, url.PathEscape(c.deviceToken), url.PathEscape(topic))
}

func (c *HTTPClient) do(ctx context.Context, method, u string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound && method == http.MethodDelete:
		// Already unsubscribed.
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrBroker, resp.StatusCode)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Client            = (*HTTPClient)(nil)
	_ BatchUnsubscriber = (*HTTPClient)(nil)
)
