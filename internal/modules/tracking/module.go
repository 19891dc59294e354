package tracking

import (
	"fmt"

	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for implementation tracking.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Implementation Tracking",
		Description: "Task board derived from treatment plan milestones.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyTracking
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyRiskTreatmentPlans}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     len(doc.Data.Tasks),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Derive pulls new tasks from the treatment plans' milestones.
func (m *Module) Derive(ctx *module.Context) (module.DeriveOutcome, error) {
	added, err := Sync(ctx)
	if err != nil {
		return module.DeriveOutcome{}, err
	}
	ctx.Logbook.Record(workspace.KeyTracking, "sync created %d tasks from plan milestones", len(added))
	return module.DeriveOutcome{Added: added}, nil
}

// Export writes the task board as CSV.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	header := []string{"id", "control", "description", "due", "status"}
	var rows [][]string
	for _, task := range doc.Data.Tasks {
		control := task.ControlID
		if control == "" {
			control = "Not assigned"
		}
		rows = append(rows, []string{task.ID, control, task.Description, task.DueDate, task.Status})
	}
	rendered, err := export.RenderCSV(header, rows)
	if err != nil {
		return "", fmt.Errorf("tracking: render export: %w", err)
	}
	name := export.Filename("implementation_tracking", "", "csv", ctx.Now())
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyTracking, "exported task board to %s", name)
	return path, nil
}
