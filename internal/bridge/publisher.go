package bridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Publisher posts data-updated events to a bridge endpoint. Publishing is
// fire-and-forget: failures are logged and dropped, never surfaced to the
// save path that triggered them.
type Publisher struct {
	url    string
	http   *http.Client
	logger Logger
	clock  func() time.Time
	seq    atomic.Int64
}

// PublisherOption customizes a Publisher.
type PublisherOption func(*Publisher)

// PublisherWithHTTPClient overrides the underlying HTTP client.
func PublisherWithHTTPClient(hc *http.Client) PublisherOption {
	return func(p *Publisher) {
		if hc != nil {
			p.http = hc
		}
	}
}

// PublisherWithLogger attaches a logger for dropped-event diagnostics.
func PublisherWithLogger(l Logger) PublisherOption {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// PublisherWithClock overrides the client timestamp source.
func PublisherWithClock(clock func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewPublisher builds a publisher targeting the bridge at baseURL.
func NewPublisher(baseURL string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		url:    baseURL + "/events",
		http:   &http.Client{Timeout: 2 * time.Second},
		logger: nopLogger{},
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// DataUpdated publishes a change notification for one module's storage key.
// Safe to call from a save hook; returns immediately after the POST attempt.
func (p *Publisher) DataUpdated(moduleID, storageKey string) {
	if p == nil {
		return
	}
	evt := Event{
		Version:    EventSchemaVersion,
		EventID:    uuid.NewString(),
		Sequence:   p.seq.Add(1),
		Type:       TypeDataUpdated,
		ModuleID:   moduleID,
		StorageKey: storageKey,
		ClientTime: p.clock().UTC(),
	}
	body, err := json.Marshal(evt)
	if err != nil {
		p.logger.Printf("bridge: encode event: %v", err)
		return
	}
	resp, err := p.http.Post(p.url, "application/json", bytes.NewReader(body))
	if err != nil {
		p.logger.Printf("bridge: publish %s/%s: %v", moduleID, storageKey, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		p.logger.Printf("bridge: publish %s/%s: endpoint returned %s", moduleID, storageKey, resp.Status)
	}
}
