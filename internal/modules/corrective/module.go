package corrective

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for corrective actions.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Corrective Actions",
		Description: "Non-conformity register with root cause, corrective action, and verification.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyCorrectiveActions
}

func (m *Module) Siblings() []string {
	return nil
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     len(doc.Data.NonConformities),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Export writes the register as CSV.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	header := []string{"id", "title", "status", "severity", "rootCause", "correctiveAction", "verification"}
	var rows [][]string
	for _, nc := range doc.Data.NonConformities {
		rows = append(rows, []string{
			nc.ID, nc.Title, nc.Status, nc.Severity,
			nc.RootCause, nc.CorrectiveAction, nc.Verification,
		})
	}
	rendered, err := export.RenderCSV(header, rows)
	if err != nil {
		return "", fmt.Errorf("corrective: render export: %w", err)
	}
	name := export.Filename("corrective_actions", "", "csv", ctx.Now())
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyCorrectiveActions, "exported corrective actions to %s", name)
	return path, nil
}
