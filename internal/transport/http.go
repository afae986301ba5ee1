package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"littlecanvas-analytics/internal/model"
)

const defaultBeaconTimeout = 2 * time.Second

// Collector delivers event batches to the collector endpoint over HTTP.
type Collector struct {
	endpoint      string
	httpClient    *http.Client
	beaconClient  *http.Client
	beaconTimeout time.Duration
}

// NewCollector configures a transport for the given endpoint with sane
// defaults. The beacon path uses a separate short-timeout client so a
// best-effort send cannot stall shutdown.
func NewCollector(endpoint string) *Collector {
	return &Collector{
		endpoint:      endpoint,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		beaconClient:  &http.Client{Timeout: defaultBeaconTimeout},
		beaconTimeout: defaultBeaconTimeout,
	}
}

// SendBatch POSTs a JSON array of events. Any 2xx status is success.
func (c *Collector) SendBatch(ctx context.Context, events []model.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector rejected batch: status %d", resp.StatusCode)
	}
	return nil
}

// SendBeacon fires a best-effort send of a pre-serialized payload and
// reports whether the request was handed off without immediate error. Like
// a browser beacon, acceptance says nothing about server-side processing;
// the response status is ignored.
func (c *Collector) SendBeacon(payload []byte) bool {
	ctx, cancel := context.WithTimeout(context.Background(), c.beaconTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.beaconClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return true
}
