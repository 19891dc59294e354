// Package objectives implements the information security objectives module:
// a selection over the built-in objective catalog, derivable from the
// Statement of Applicability.
package objectives

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
const ID = "security-objectives"

// Data is the objectives module's persisted payload: only the selection
// state, never the catalog itself.
type Data struct {
	catalog.Selection
}

// Defaults returns an empty selection.
func Defaults() Data {
	return Data{}
}

// Store opens the objectives module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyObjectives, ctx.Workspace.KeyPath(workspace.KeyObjectives), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// Rules maps applicable Annex A controls to the objectives they imply. A
// fixed association table plus any extension rules, not a rule engine.
func Rules() []resolver.Rule {
	return append(baseRules(), resolver.ExtraRules(resolver.RuleScopeObjectives)...)
}

func baseRules() []resolver.Rule {
	return []resolver.Rule{
		{Controls: []string{"A.8.8"}, Targets: []string{"OBJ-004"}},
		{Controls: []string{"A.5.29", "A.5.30"}, Targets: []string{"OBJ-008"}},
		{Controls: []string{"A.5.15", "A.8.2"}, Targets: []string{"OBJ-009"}},
		{Controls: []string{"A.8.24"}, Targets: []string{"OBJ-007"}},
		{Controls: []string{"A.5.19", "A.5.20"}, Targets: []string{"OBJ-006"}},
		{Controls: []string{"A.6.3"}, Targets: []string{"OBJ-005"}},
		{Controls: []string{"A.5.24", "A.5.26"}, Targets: []string{"OBJ-003"}},
		{Controls: []string{"A.5.31"}, Targets: []string{"OBJ-010"}},
	}
}

// Module implements the module runtime contract for security objectives.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Security Objectives",
		Description: "Measurable information security objectives selected for the ISMS.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyObjectives
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

// Derive selects objectives implied by the SoA's applicable controls. Only
// ever turns items on; manual deselections need another explicit run to come
// back.
func (m *Module) Derive(ctx *module.Context) (module.DeriveOutcome, error) {
	app := soa.Applicability(ctx)
	var outcome resolver.Outcome
	err := Store(ctx).Mutate(func(doc *store.Doc[Data]) error {
		outcome = resolver.AutoSelect(&doc.Data.Selection, Rules(), app)
		return nil
	})
	if err != nil {
		return module.DeriveOutcome{}, fmt.Errorf("objectives: derive: %w", err)
	}
	ctx.Logbook.Record(workspace.KeyObjectives, "auto-select added %d objectives (%d rules matched)", len(outcome.Added), outcome.Matched)
	return module.DeriveOutcome{Added: outcome.Added}, nil
}

// Export writes the selected objectives as a Markdown document.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	org := scope.Organization(ctx)

	artifact := &export.Document{Title: "Information Security Objectives"}
	for _, item := range catalog.Objectives() {
		if !doc.Data.IsSelected(item.ID) {
			continue
		}
		artifact.Heading(2, fmt.Sprintf("%s %s", item.ID, item.Name))
		artifact.Para(item.Description)
		if note := doc.Data.Note(item.ID); note != "" {
			artifact.Para(fmt.Sprintf("**Notes:** %s", note))
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
		return "", fmt.Errorf("objectives: render export: %w", err)
	}
	name := export.Filename("Security_Objectives", org, "md", now)
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyObjectives, "exported objectives to %s", name)
	return path, nil
}
