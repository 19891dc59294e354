package treatmentplan

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for treatment plans.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Risk Treatment Plan",
		Description: "Per-control implementation plans with phases, priorities, and milestones.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyRiskTreatmentPlans
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyRiskTreatments, workspace.KeyStatementOfApplicability}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     len(doc.Data.Plans),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Export writes the plan register as a Markdown document: one section per
// plan with its milestone table.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	artifact := &export.Document{Title: "Risk Treatment Plan"}
	for _, p := range doc.Data.Plans {
		name := p.ControlID
		if control, ok := catalog.ControlByID(p.ControlID); ok {
			name = fmt.Sprintf("%s %s", control.ID, control.Title)
		}
		artifact.Heading(2, name)
		artifact.Para(fmt.Sprintf("**Phase:** %s | **Status:** %s | **Priority:** %s", p.Phase, p.Status, p.Priority))
		if p.Owner != "" {
			artifact.Para(fmt.Sprintf("**Owner:** %s", p.Owner))
		}
		if len(p.Milestones) > 0 {
			rows := [][]string{{"Milestone", "Description", "Target", "Done"}}
			for _, ms := range p.Milestones {
				done := ""
				if ms.Completed {
					done = ms.CompletedDate
					if done == "" {
						done = "yes"
					}
				}
				rows = append(rows, []string{ms.ID, ms.Description, ms.TargetDate, done})
			}
			artifact.Table(rows...)
		}
	}

	now := ctx.Now()
	rendered, err := export.RenderMarkdown(artifact, &export.Provenance{
		Document: artifact.Title,
		Module:   ID,
		Version:  m.Info().Version,
		Created:  now,
	})
	if err != nil {
		return "", fmt.Errorf("treatmentplan: render export: %w", err)
	}
	name := export.Filename("Risk_Treatment_Plan", "", "md", now)
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyRiskTreatmentPlans, "exported treatment plan to %s", name)
	return path, nil
}
