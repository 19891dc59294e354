// Package training implements the training and awareness module: selections
// over the program, campaign, and competence catalogs, derivable from the
// Statement of Applicability.
package training

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/scope"
	"github.com/kingrea/ismsforge/internal/modules/soa"
	"github.com/kingrea/ismsforge/internal/resolver"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "training-awareness"

// Data is the training module's persisted payload: three independent
// selections over the program, campaign, and competence catalogs.
type Data struct {
	Programs   catalog.Selection `json:"programs"`
	Campaigns  catalog.Selection `json:"campaigns"`
	Competence catalog.Selection `json:"competence"`
}

// Defaults returns empty selections.
func Defaults() Data {
	return Data{}
}

// Store opens the training module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyTraining, ctx.Workspace.KeyPath(workspace.KeyTraining), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// ProgramRules maps applicable Annex A controls to training programs,
// including any extension rules.
func ProgramRules() []resolver.Rule {
	return append(basePrograms(), resolver.ExtraRules(resolver.RuleScopeTraining)...)
}

func basePrograms() []resolver.Rule {
	return []resolver.Rule{
		{Controls: []string{"A.6.3"}, Targets: []string{"TRN-001"}},
		{Controls: []string{"A.8.8"}, Targets: []string{"TRN-002"}},
		{Controls: []string{"A.5.24", "A.5.26"}, Targets: []string{"TRN-003"}},
		{Controls: []string{"A.8.25"}, Targets: []string{"TRN-004"}},
		{Controls: []string{"A.5.34"}, Targets: []string{"TRN-005"}},
	}
}

// CampaignRules maps applicable Annex A controls to awareness campaigns.
func CampaignRules() []resolver.Rule {
	return []resolver.Rule{
		{Controls: []string{"A.6.3"}, Targets: []string{"CMP-001", "CMP-004"}},
		{Controls: []string{"A.5.17"}, Targets: []string{"CMP-003"}},
		{Controls: []string{"A.7.7"}, Targets: []string{"CMP-002"}},
	}
}

// CompetenceRules maps applicable Annex A controls to competence areas.
func CompetenceRules() []resolver.Rule {
	return []resolver.Rule{
		{Controls: []string{"A.5.35"}, Targets: []string{"COM-001"}},
		{Controls: []string{"A.5.24"}, Targets: []string{"COM-003"}},
		{Controls: []string{"A.8.9"}, Targets: []string{"COM-004"}},
	}
}

// Module implements the module runtime contract for training and awareness.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Training & Awareness",
		Description: "Training programs, awareness campaigns, and competence requirements.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyTraining
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyStatementOfApplicability, workspace.KeyScope}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     doc.Data.Programs.Count() + doc.Data.Campaigns.Count() + doc.Data.Competence.Count(),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Derive selects programs, campaigns, and competence areas implied by the
// SoA's applicable controls, in one pass over one save.
func (m *Module) Derive(ctx *module.Context) (module.DeriveOutcome, error) {
	app := soa.Applicability(ctx)
	var added []string
	err := Store(ctx).Mutate(func(doc *store.Doc[Data]) error {
		for _, run := range []struct {
			sel   *catalog.Selection
			rules []resolver.Rule
		}{
			{&doc.Data.Programs, ProgramRules()},
			{&doc.Data.Campaigns, CampaignRules()},
			{&doc.Data.Competence, CompetenceRules()},
		} {
			outcome := resolver.AutoSelect(run.sel, run.rules, app)
			added = append(added, outcome.Added...)
		}
		return nil
	})
	if err != nil {
		return module.DeriveOutcome{}, fmt.Errorf("training: derive: %w", err)
	}
	ctx.Logbook.Record(workspace.KeyTraining, "auto-select added %d training items", len(added))
	return module.DeriveOutcome{Added: added}, nil
}

// Export writes the training and awareness plan as a Markdown document.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	org := scope.Organization(ctx)

	artifact := &export.Document{Title: "Training and Awareness Plan"}
	sections := []struct {
		title string
		items []catalog.Item
		sel   catalog.Selection
	}{
		{"Training Programs", catalog.TrainingPrograms(), doc.Data.Programs},
		{"Awareness Campaigns", catalog.TrainingCampaigns(), doc.Data.Campaigns},
		{"Competence Requirements", catalog.CompetenceAreas(), doc.Data.Competence},
	}
	for _, section := range sections {
		artifact.Heading(2, section.title)
		for _, item := range section.items {
			if !section.sel.IsSelected(item.ID) {
				continue
			}
			artifact.Bullet(fmt.Sprintf("**%s** %s", item.ID, item.Name))
			if note := section.sel.Note(item.ID); note != "" {
				artifact.Bullet(note)
			}
		}
	}

	now := ctx.Now()
	rendered, err := export.RenderMarkdown(artifact, &export.Provenance{
		Document:     artifact.Title,
		Module:       ID,
		Version:      m.Info().Version,
		Organization: org,
		Created:      now,
	})
	if err != nil {
		return "", fmt.Errorf("training: render export: %w", err)
	}
	name := export.Filename("Training_Awareness_Plan", org, "md", now)
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyTraining, "exported training plan to %s", name)
	return path, nil
}
