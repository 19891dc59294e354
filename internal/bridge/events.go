// Package bridge implements the loopback HTTP bridge another ismsforge
// process (or an editor integration) can use to hear about data changes. A
// mutating save publishes a data-updated event naming the module and storage
// key; subscribers treat it as an advisory re-read trigger, never as a
// transactional guarantee.
package bridge

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ProtocolVersion identifies the bridge contract version exposed via /health.
	ProtocolVersion = "1.0.0"
	// EventSchemaVersion is the currently supported inbound event version.
	EventSchemaVersion = 1
	// TypeDataUpdated is the only event type the workbench publishes.
	TypeDataUpdated = "data-updated"
)

// Event is a single change notification. The payload is deliberately thin:
// which module, which storage key, when — receivers re-read state themselves.
type Event struct {
	Version    int       `json:"version"`
	EventID    string    `json:"event_id"`
	Sequence   int64     `json:"sequence"`
	Type       string    `json:"type"`
	ModuleID   string    `json:"module_id"`
	StorageKey string    `json:"storage_key"`
	ClientTime time.Time `json:"client_time"`
	ServerTime time.Time `json:"server_time"`
}

// Normalize applies defaults and canonical formatting before validation.
func (e *Event) Normalize() {
	if e == nil {
		return
	}
	if e.Version == 0 {
		e.Version = EventSchemaVersion
	}
	e.EventID = strings.TrimSpace(e.EventID)
	e.Type = strings.TrimSpace(e.Type)
	e.ModuleID = strings.TrimSpace(e.ModuleID)
	e.StorageKey = strings.TrimSpace(e.StorageKey)
}

// StampServerTime overwrites ServerTime with the supplied clock reading (UTC).
func (e *Event) StampServerTime(now time.Time) {
	if e == nil {
		return
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	e.ServerTime = now.UTC()
}

// Validate enforces baseline schema requirements for incoming events.
func (e Event) Validate() error {
	if e.Version != EventSchemaVersion {
		return fmt.Errorf("version %d not supported", e.Version)
	}
	if e.EventID == "" {
		return errors.New("event_id is required")
	}
	if e.Type != TypeDataUpdated {
		return fmt.Errorf("unsupported type %q", e.Type)
	}
	if e.ModuleID == "" {
		return errors.New("module_id is required")
	}
	if e.StorageKey == "" {
		return errors.New("storage_key is required")
	}
	return nil
}

// EventProcessor consumes validated events.
type EventProcessor interface {
	HandleEvent(Event) error
}

// EventProcessorFunc adapts a function into an EventProcessor.
type EventProcessorFunc func(Event) error

// HandleEvent executes f(e).
func (f EventProcessorFunc) HandleEvent(e Event) error {
	if f == nil {
		return nil
	}
	return f(e)
}

// Logger records bridge status information. It matches logging.Logger's
// signature.
type Logger interface {
	Printf(format string, args ...any)
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type eventResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"server_time"`
}
