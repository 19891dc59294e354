package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/kingrea/ismsforge/internal/config"
)

func startTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	settings := Settings{Enabled: true, Host: "127.0.0.1", Port: 0}
	settings.normalize()
	settings.Port = 0 // let the OS pick
	server := NewServer(settings, opts...)
	if err := server.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	return server
}

func TestHealthReportsReady(t *testing.T) {
	server := startTestServer(t)
	resp, err := http.Get(server.BaseURL() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != string(StatusReady) || health.Version != ProtocolVersion {
		t.Fatalf("health = %+v", health)
	}
}

func TestEventsAcceptsDataUpdated(t *testing.T) {
	var received []Event
	server := startTestServer(t, WithProcessor(EventProcessorFunc(func(e Event) error {
		received = append(received, e)
		return nil
	})))

	evt := Event{
		EventID:    "evt-1",
		Type:       TypeDataUpdated,
		ModuleID:   "scope",
		StorageKey: "isms-scope-data",
		ClientTime: time.Now().UTC(),
	}
	body, _ := json.Marshal(evt)
	resp, err := http.Post(server.BaseURL()+"/events", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(received) != 1 || received[0].ModuleID != "scope" {
		t.Fatalf("received = %+v", received)
	}
	if received[0].ServerTime.IsZero() {
		t.Fatal("server time not stamped")
	}
}

func TestEventsRejectsMalformedEvents(t *testing.T) {
	server := startTestServer(t)
	cases := []string{
		`not json`,
		`{"event_id":"e","type":"data-updated","module_id":"scope"}`,
		`{"event_id":"e","type":"unknown","module_id":"scope","storage_key":"k"}`,
		`{"type":"data-updated","module_id":"scope","storage_key":"k"}`,
	}
	for i, payload := range cases {
		resp, err := http.Post(server.BaseURL()+"/events", "application/json", bytes.NewReader([]byte(payload)))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: status = %d, want 400", i, resp.StatusCode)
		}
	}
}

func TestPublisherDeliversToServer(t *testing.T) {
	events := make(chan Event, 1)
	server := startTestServer(t, WithProcessor(EventProcessorFunc(func(e Event) error {
		events <- e
		return nil
	})))

	pub := NewPublisher(server.BaseURL())
	pub.DataUpdated("risk-treatment", "riskTreatments")

	select {
	case evt := <-events:
		if evt.ModuleID != "risk-treatment" || evt.StorageKey != "riskTreatments" || evt.Sequence != 1 {
			t.Fatalf("event = %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived")
	}
}

func TestDisabledServerRefusesToStart(t *testing.T) {
	server := NewServer(Settings{Enabled: false})
	if err := server.Start(context.Background()); err == nil {
		t.Fatal("disabled server must not start")
	}
}

func TestSettingsEnvOverrides(t *testing.T) {
	os.Setenv("ISMSFORGE_BRIDGE_ENABLED", "false")
	os.Setenv("ISMSFORGE_BRIDGE_PORT", "9200")
	defer os.Unsetenv("ISMSFORGE_BRIDGE_ENABLED")
	defer os.Unsetenv("ISMSFORGE_BRIDGE_PORT")

	settings := SettingsFromConfig(&config.Config{})
	if settings.Enabled {
		t.Fatal("env override should disable the bridge")
	}
	if settings.Port != 9200 {
		t.Fatalf("port = %d, want 9200", settings.Port)
	}
	if got := settings.Address(); got != fmt.Sprintf("%s:9200", DefaultHost) {
		t.Fatalf("address = %s", got)
	}
}
