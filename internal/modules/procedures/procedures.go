// Package procedures implements the security operating procedures module: a
// selection over the built-in procedure catalog, derivable from the
// Statement of Applicability.
package procedures

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
const ID = "operating-procedures"

// Data is the procedures module's persisted payload.
type Data struct {
	catalog.Selection
}

// Defaults returns an empty selection.
func Defaults() Data {
	return Data{}
}

// Store opens the procedures module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyProcedures, ctx.Workspace.KeyPath(workspace.KeyProcedures), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// Rules maps applicable Annex A controls to the procedures they imply,
// including any extension rules.
func Rules() []resolver.Rule {
	return append(baseRules(), resolver.ExtraRules(resolver.RuleScopeProcedures)...)
}

func baseRules() []resolver.Rule {
	return []resolver.Rule{
		{Controls: []string{"A.5.15", "A.8.2"}, Targets: []string{"SOP-001"}},
		{Controls: []string{"A.5.24", "A.5.26"}, Targets: []string{"SOP-002"}},
		{Controls: []string{"A.8.8"}, Targets: []string{"SOP-003"}},
		{Controls: []string{"A.8.32"}, Targets: []string{"SOP-004"}},
		{Controls: []string{"A.8.13"}, Targets: []string{"SOP-005"}},
		{Controls: []string{"A.8.25"}, Targets: []string{"SOP-006"}},
		{Controls: []string{"A.5.19", "A.5.20"}, Targets: []string{"SOP-007"}},
		{Controls: []string{"A.5.9", "A.5.10"}, Targets: []string{"SOP-008"}},
		{Controls: []string{"A.7.1", "A.7.2"}, Targets: []string{"SOP-009"}},
		{Controls: []string{"A.8.15", "A.8.16"}, Targets: []string{"SOP-010"}},
	}
}

// Module implements the module runtime contract for operating procedures.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Operating Procedures",
		Description: "Security operating procedures selected for the ISMS.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyProcedures
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyStatementOfApplicability, workspace.KeyScope}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     doc.Data.Count(),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Derive selects procedures implied by the SoA's applicable controls.
func (m *Module) Derive(ctx *module.Context) (module.DeriveOutcome, error) {
	app := soa.Applicability(ctx)
	var outcome resolver.Outcome
	err := Store(ctx).Mutate(func(doc *store.Doc[Data]) error {
		outcome = resolver.AutoSelect(&doc.Data.Selection, Rules(), app)
		return nil
	})
	if err != nil {
		return module.DeriveOutcome{}, fmt.Errorf("procedures: derive: %w", err)
	}
	ctx.Logbook.Record(workspace.KeyProcedures, "auto-select added %d procedures (%d rules matched)", len(outcome.Added), outcome.Matched)
	return module.DeriveOutcome{Added: outcome.Added}, nil
}

// Export writes the selected procedures as a Markdown document.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	org := scope.Organization(ctx)

	artifact := &export.Document{Title: "Security Operating Procedures"}
	rows := [][]string{{"Id", "Procedure", "Notes"}}
	for _, item := range catalog.Procedures() {
		if !doc.Data.IsSelected(item.ID) {
			continue
		}
		rows = append(rows, []string{item.ID, item.Name, doc.Data.Note(item.ID)})
	}
	artifact.Table(rows...)

	now := ctx.Now()
	rendered, err := export.RenderMarkdown(artifact, &export.Provenance{
		Document:     artifact.Title,
		Module:       ID,
		Version:      m.Info().Version,
		Organization: org,
		Created:      now,
	})
	if err != nil {
		return "", fmt.Errorf("procedures: render export: %w", err)
	}
	name := export.Filename("Operating_Procedures", org, "md", now)
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyProcedures, "exported procedures to %s", name)
	return path, nil
}
