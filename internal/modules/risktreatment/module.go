package risktreatment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/riskassess"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for risk treatment.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Risk Treatment",
		Description: "Treatment strategy, control selection, and residual risk per assessed risk.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyRiskTreatments
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyRiskAssessment}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     len(doc.Data.Treatments),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Export writes the treatment register as CSV, joining the upstream risk
// assessment for asset names and original scores. Missing foreign keys render
// as safe placeholder strings, never errors.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	assessment := riskassess.Store(ctx).Load().Data

	header := []string{"riskId", "asset", "originalScore", "strategy", "controls", "owner", "residualScore", "residualLevel"}
	var rows [][]string
	for _, t := range doc.Data.Treatments {
		asset := "Unknown Asset"
		original := ""
		if risk, ok := assessment.RiskByID(t.RiskID); ok {
			original = strconv.Itoa(risk.Score())
			if a, ok := assessment.AssetByID(risk.AssetID); ok {
				asset = a.Name
			}
		}
		owner := t.Owner
		if owner == "" {
			owner = "Not assigned"
		}
		rows = append(rows, []string{
			t.RiskID, asset, original, t.Strategy,
			strings.Join(t.Controls, ";"), owner,
			strconv.FormatFloat(t.ResidualScore, 'f', 1, 64), t.ResidualLevel,
		})
	}
	rendered, err := export.RenderCSV(header, rows)
	if err != nil {
		return "", fmt.Errorf("risktreatment: render export: %w", err)
	}
	name := export.Filename("risk_treatment_register", "", "csv", ctx.Now())
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyRiskTreatments, "exported treatment register to %s", name)
	return path, nil
}
