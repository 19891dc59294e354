package scope

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/logbook"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

func testContext(t *testing.T) *module.Context {
	t.Helper()
	ws := workspace.New(t.TempDir())
	if err := ws.Init(); err != nil {
		t.Fatal(err)
	}
	lb, err := logbook.New(ws.LogbookPath())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.New(ws.ProjectDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := module.NewContext(cfg, ws, lb)
	return ctx.WithClock(func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	})
}

func TestIssueListsRejectDuplicates(t *testing.T) {
	var data Data
	if !data.AddInternalIssue("Legacy systems nearing end of life") {
		t.Fatalf("first add should change the list")
	}
	if data.AddInternalIssue("Legacy systems nearing end of life") {
		t.Fatalf("duplicate add must be a no-op")
	}
	if data.AddInternalIssue("  Legacy systems nearing end of life  ") {
		t.Fatalf("whitespace variant must dedup to the same value")
	}
	if len(data.InternalIssues) != 1 {
		t.Fatalf("internal issues = %v, want exactly one entry", data.InternalIssues)
	}

	data.AddExternalIssue("Customer security expectations")
	data.AddExternalIssue("Supply chain dependency risk")
	data.AddExternalIssue("Customer security expectations")
	want := []string{"Customer security expectations", "Supply chain dependency risk"}
	if !reflect.DeepEqual(data.ExternalIssues, want) {
		t.Fatalf("external issues = %v, want %v (insertion order)", data.ExternalIssues, want)
	}
}

func TestTupleListsRejectDuplicates(t *testing.T) {
	var data Data
	p := Party{Party: "Customers", Requirements: "Data protection", Influence: "High"}
	if !data.AddParty(p) || data.AddParty(p) {
		t.Fatalf("party dedup broken: %v", data.Parties)
	}
	ex := Exclusion{Item: "Guest Wi-Fi", Justification: "Segregated network, no ISMS data"}
	if !data.AddExclusion(ex) || data.AddExclusion(ex) {
		t.Fatalf("exclusion dedup broken: %v", data.Exclusions)
	}
	if !data.AddExclusion(Exclusion{Item: "Guest Wi-Fi", Justification: "different text"}) {
		t.Fatalf("same item with different justification is a distinct tuple")
	}
}

func TestScopeStateRoundTrip(t *testing.T) {
	ctx := testContext(t)
	st := Store(ctx)

	doc := st.Load()
	doc.Data.Organization = "Acme Corp"
	doc.Data.AddInternalIssue("Limited security staffing")
	doc.Data.AddParty(Party{Party: "Regulator", Requirements: "Compliance evidence", Influence: "High"})
	doc.Data.AddProcess("Order fulfilment")
	doc.Data.Statement.Notes = "Covers production and corporate IT."
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}

	reloaded := Store(ctx).Load()
	if !reflect.DeepEqual(reloaded.Data, doc.Data) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", reloaded.Data, doc.Data)
	}
	if !reloaded.Exists {
		t.Fatalf("reloaded document should exist")
	}
}

func TestExportIncludesEveryScopeEntry(t *testing.T) {
	ctx := testContext(t)
	st := Store(ctx)
	doc := st.Load()
	doc.Data.Organization = "Acme Corp"
	doc.Data.AddInternalIssue("Organizational restructuring")
	doc.Data.AddInternalIssue("Legacy systems nearing end of life")
	doc.Data.AddExternalIssue("Evolving regulatory requirements")
	doc.Data.AddExternalIssue("Increased ransomware activity in the sector")
	doc.Data.AddParty(Party{Party: "Customers", Requirements: "Confidentiality", Influence: "High"})
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}

	mod := &Module{}
	path, err := mod.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	for _, want := range []string{
		"Acme Corp",
		"Organizational restructuring",
		"Legacy systems nearing end of life",
		"Evolving regulatory requirements",
		"Increased ransomware activity in the sector",
		"Customers",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("export missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(path, "ISMS_Scope_Document_Acme_Corp_2026-08-28.md") {
		t.Fatalf("unexpected artifact name: %s", path)
	}
}

func TestExportEmbedsDraftNarrative(t *testing.T) {
	ctx := testContext(t)
	st := Store(ctx)
	doc := st.Load()
	doc.Data.Organization = "Acme Corp"
	doc.Data.Narrative = "## Purpose\n\nThe ISMS protects **all** customer data."
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}

	artifact := BuildDocument(st.Load().Data)
	text := artifact.PlainText()
	if !strings.Contains(text, "The ISMS protects all customer data.") {
		t.Fatalf("narrative not embedded:\n%s", text)
	}
}

func TestSummaryCountsEntries(t *testing.T) {
	ctx := testContext(t)
	mod := &Module{}
	if got := mod.Summary(ctx); got.Present || got.Records != 0 {
		t.Fatalf("empty workspace summary = %+v", got)
	}
	st := Store(ctx)
	doc := st.Load()
	doc.Data.AddInternalIssue("a")
	doc.Data.AddExternalIssue("b")
	doc.Data.AddParty(Party{Party: "p"})
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}
	got := mod.Summary(ctx)
	if !got.Present || got.Records != 3 {
		t.Fatalf("summary = %+v, want present with 3 records", got)
	}
}
