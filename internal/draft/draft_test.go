package draft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/modules/scope"
)

func scopeData() scope.Data {
	var data scope.Data
	data.Organization = "Acme Corp"
	data.AddInternalIssue("Limited security staffing")
	data.AddExternalIssue("Evolving regulatory requirements")
	data.AddParty(scope.Party{Party: "Customers", Requirements: "Confidentiality", Influence: "High"})
	data.AddExclusion(scope.Exclusion{Item: "Guest Wi-Fi", Justification: "Segregated network"})
	data.Statement.Notes = "Production only."
	return data
}

// clearLLMEnv shields tests from a developer's real endpoint overrides.
func clearLLMEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ISMSFORGE_LLM_BASE_URL", "")
	t.Setenv("ISMSFORGE_LLM_MODEL", "")
}

func TestDraftScopeReturnsFirstChoiceVerbatim(t *testing.T) {
	clearLLMEnv(t)
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Error(err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "## Scope\n\nAcme Corp operates..."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{
		BaseURL:   server.URL + "/v1",
		Model:     "gpt-4o-mini",
		APIKeyEnv: "ISMSFORGE_LLM_API_KEY",
	}, WithAPIKey("test-key"))

	text, err := DraftScope(context.Background(), client, scopeData())
	if err != nil {
		t.Fatal(err)
	}
	if text != "## Scope\n\nAcme Corp operates..." {
		t.Fatalf("narrative = %q", text)
	}

	messages := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want system+user", len(messages))
	}
	user := messages[1].(map[string]any)["content"].(string)
	for _, want := range []string{
		"Acme Corp",
		"Limited security staffing",
		"Evolving regulatory requirements",
		"Customers",
		"Guest Wi-Fi",
		"Production only.",
	} {
		if !strings.Contains(user, want) {
			t.Fatalf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestCompleteSurfacesEndpointErrors(t *testing.T) {
	clearLLMEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{BaseURL: server.URL, Model: "m"}, WithAPIKey("k"))
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("non-200 response must surface as an error")
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	clearLLMEnv(t)
	client := NewClient(config.LLMConfig{BaseURL: "http://127.0.0.1:1", Model: "m", APIKeyEnv: "ISMSFORGE_TEST_UNSET_KEY"})
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("missing API key must fail before any network call")
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	clearLLMEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.LLMConfig{BaseURL: server.URL, Model: "m"}, WithAPIKey("k"))
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("empty choices must be an error")
	}
}
