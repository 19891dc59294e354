package training

import (
	"testing"
	"time"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/config"
	"github.com/kingrea/ismsforge/internal/logbook"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/soa"
	"github.com/kingrea/ismsforge/internal/resolver"
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

func TestRuleTargetsExistInCatalogs(t *testing.T) {
	catalogs := []struct {
		rules []resolver.Rule
		items []catalog.Item
	}{
		{ProgramRules(), catalog.TrainingPrograms()},
		{CampaignRules(), catalog.TrainingCampaigns()},
		{CompetenceRules(), catalog.CompetenceAreas()},
	}
	for _, c := range catalogs {
		for _, rule := range c.rules {
			for _, controlID := range rule.Controls {
				if _, ok := catalog.ControlByID(controlID); !ok {
					t.Fatalf("rule references unknown control %s", controlID)
				}
			}
			for _, target := range rule.Targets {
				if _, ok := catalog.ItemByID(c.items, target); !ok {
					t.Fatalf("rule references unknown item %s", target)
				}
			}
		}
	}
}

func TestDeriveSpansAllThreeSelections(t *testing.T) {
	ctx := testContext(t)
	st := soa.Store(ctx)
	doc := st.Load()
	for controlID, status := range map[string]string{
		"A.8.8":  resolver.StatusApplicable,
		"A.6.3":  resolver.StatusApplicable,
		"A.5.35": resolver.StatusPartiallyApplicable,
	} {
		if _, err := doc.Data.SetStatus(controlID, status, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}

	mod := &Module{}
	outcome, err := mod.Derive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.Added) == 0 {
		t.Fatal("derive added nothing")
	}

	data := Store(ctx).Load().Data
	if !data.Programs.IsSelected("TRN-001") || !data.Programs.IsSelected("TRN-002") {
		t.Fatalf("programs = %v, want TRN-001 and TRN-002", data.Programs.Selected)
	}
	if !data.Campaigns.IsSelected("CMP-001") || !data.Campaigns.IsSelected("CMP-004") {
		t.Fatalf("campaigns = %v, want CMP-001 and CMP-004", data.Campaigns.Selected)
	}
	if !data.Competence.IsSelected("COM-001") {
		t.Fatalf("competence = %v, want COM-001", data.Competence.Selected)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	st := soa.Store(ctx)
	doc := st.Load()
	if _, err := doc.Data.SetStatus("A.8.8", resolver.StatusApplicable, ""); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}

	mod := &Module{}
	first, err := mod.Derive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := mod.Derive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Added) == 0 || len(second.Added) != 0 {
		t.Fatalf("first added %v, second added %v", first.Added, second.Added)
	}
}

func TestSelectionsRoundTrip(t *testing.T) {
	ctx := testContext(t)
	st := Store(ctx)
	doc := st.Load()
	doc.Data.Programs.Select("TRN-004")
	doc.Data.Programs.SetNote("TRN-004", "engineering only")
	doc.Data.Campaigns.Select("CMP-003")
	if err := st.Save(&doc); err != nil {
		t.Fatal(err)
	}
	reloaded := st.Load().Data
	if !reloaded.Programs.IsSelected("TRN-004") || reloaded.Programs.Note("TRN-004") != "engineering only" {
		t.Fatalf("programs round trip broken: %+v", reloaded.Programs)
	}
	if !reloaded.Campaigns.IsSelected("CMP-003") || reloaded.Competence.Count() != 0 {
		t.Fatalf("campaign/competence round trip broken: %+v", reloaded)
	}
}
