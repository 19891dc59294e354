package soa

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/resolver"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for the SoA.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Statement of Applicability",
		Description: "Applicability decision and justification for every Annex A control.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyStatementOfApplicability
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyRiskTreatments}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     len(doc.Data.Records),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Export writes the full statement as a Markdown table over all 93 controls.
// Controls without a decision render as to-be-determined.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	artifact := &export.Document{Title: "Statement of Applicability"}
	artifact.Para(fmt.Sprintf("%d of %d controls decided, %d applicable.",
		len(doc.Data.Records), len(catalog.Controls()), doc.Data.ApplicableCount()))

	rows := [][]string{{"Control", "Name", "Status", "Justification"}}
	for _, control := range catalog.Controls() {
		status, ok := doc.Data.Status(control.ID)
		if !ok {
			status = resolver.StatusToBeDetermined
		}
		justification := ""
		for _, rec := range doc.Data.Records {
			if rec.ControlID == control.ID {
				justification = rec.Justification
			}
		}
		rows = append(rows, []string{control.ID, control.Title, status, justification})
	}
	artifact.Table(rows...)

	now := ctx.Now()
	rendered, err := export.RenderMarkdown(artifact, &export.Provenance{
		Document: artifact.Title,
		Module:   ID,
		Version:  m.Info().Version,
		Created:  now,
	})
	if err != nil {
		return "", fmt.Errorf("soa: render export: %w", err)
	}
	name := export.Filename("Statement_of_Applicability", "", "md", now)
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyStatementOfApplicability, "exported statement of applicability to %s", name)
	return path, nil
}
