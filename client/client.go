// Package client wires the analytics pieces the canvas app composes at its
// root: a durable event queue per collector endpoint, and entitlement
// resolution reading the same local store.
package client

import (
	"log"

	"littlecanvas-analytics/internal/entitlement"
	"littlecanvas-analytics/internal/model"
	"littlecanvas-analytics/internal/queue"
	"littlecanvas-analytics/internal/store"
	"littlecanvas-analytics/internal/transport"
)

// Options configures a Client.
type Options struct {
	// Endpoint is the collector URL batches are posted to.
	Endpoint string

	// StorePath locates the SQLite database backing durable state. Empty
	// means in-memory only: events do not survive a restart.
	StorePath string

	Queue queue.Config
}

// Client is the app-facing handle. One Client owns one durable store and
// one queue registry; the app keeps it for its lifetime and calls Close on
// shutdown.
type Client struct {
	endpoint string
	kv       store.KV
	sqlite   *store.SQLite
	registry *queue.Registry
	loader   *entitlement.Loader
	resolver *entitlement.Resolver
}

// New builds a Client. A store that fails to open degrades to in-memory
// operation with a log line; telemetry is never the reason the app fails
// to start.
func New(opts Options) *Client {
	var kv store.KV
	var sqlite *store.SQLite
	if opts.StorePath != "" {
		opened, err := store.OpenSQLite(opts.StorePath)
		if err != nil {
			log.Printf("[ERROR] open analytics store: %v, falling back to in-memory", err)
		} else {
			sqlite = opened
			kv = opened
		}
	}
	if kv == nil {
		kv = store.NewMemory()
	}

	cfg := opts.Queue
	registry := queue.NewRegistry(func(endpoint string) *queue.Queue {
		return queue.New(cfg, transport.NewCollector(endpoint), kv)
	})

	return &Client{
		endpoint: opts.Endpoint,
		kv:       kv,
		sqlite:   sqlite,
		registry: registry,
		loader:   entitlement.NewLoader(kv),
		resolver: entitlement.NewResolver(entitlement.NewPackMap(kv)),
	}
}

// Queue returns the event queue for the configured endpoint.
func (c *Client) Queue() *queue.Queue {
	return c.registry.For(c.endpoint)
}

// Track enqueues an event for delivery. The bool mirrors Enqueue: false
// means the queue was full and the event was dropped.
func (c *Client) Track(event model.Event) bool {
	return c.Queue().Enqueue(event)
}

// SetOnline forwards a connectivity transition to the queue.
func (c *Client) SetOnline(online bool) {
	c.Queue().SetOnline(online)
}

// Shutdown attempts a final best-effort delivery of anything still queued.
func (c *Client) Shutdown() bool {
	return c.Queue().FlushSync()
}

// Entitlements loads the viewer's snapshot; absent or corrupted state
// yields the empty snapshot.
func (c *Client) Entitlements(userID string) model.Entitlements {
	return c.loader.Entitlements(userID)
}

// VisibleTemplates returns the subset of templates the viewer may use.
func (c *Client) VisibleTemplates(templates []model.Template, query entitlement.Query) []model.Template {
	return c.resolver.FilterTemplatesForUser(templates, query)
}

// Close releases the queue ticker and the store handle.
func (c *Client) Close() {
	c.registry.Reset()
	if c.sqlite != nil {
		c.sqlite.Close()
	}
}
