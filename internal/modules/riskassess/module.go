package riskassess

import (
	"fmt"
	"strconv"

	"github.com/kingrea/ismsforge/internal/export"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Module implements the module runtime contract for risk assessment.
type Module struct{}

// New is the registry factory.
func New() (module.Module, error) {
	return &Module{}, nil
}

func (m *Module) Info() module.Info {
	return module.Info{
		ID:          ID,
		Name:        "Risk Assessment",
		Description: "Asset, threat, and vulnerability registers with assessed risk links.",
		Version:     "1.0.0",
	}
}

func (m *Module) StorageKey() string {
	return workspace.KeyRiskAssessment
}

func (m *Module) Siblings() []string {
	return []string{workspace.KeyScope}
}

func (m *Module) Summary(ctx *module.Context) module.Summary {
	doc := Store(ctx).Load()
	return module.Summary{
		Present:     doc.Exists,
		Records:     len(doc.Data.Risks),
		LastUpdated: doc.Meta.LastUpdated,
	}
}

// Export writes the risk register as CSV, one row per risk link with foreign
// keys resolved to display names.
func (m *Module) Export(ctx *module.Context) (string, error) {
	doc := Store(ctx).Load()
	header := []string{"id", "asset", "threat", "vulnerability", "likelihood", "impact", "score", "level"}
	var rows [][]string
	for _, risk := range doc.Data.Risks {
		asset := "Unknown Asset"
		if a, ok := doc.Data.AssetByID(risk.AssetID); ok {
			asset = a.Name
		}
		threat := "Unknown Threat"
		if t, ok := doc.Data.ThreatByID(risk.ThreatID); ok {
			threat = t.Name
		}
		vuln := "Unknown Vulnerability"
		if v, ok := doc.Data.VulnerabilityByID(risk.VulnerabilityID); ok {
			vuln = v.Name
		}
		score := risk.Score()
		rows = append(rows, []string{
			risk.ID, asset, threat, vuln,
			risk.Likelihood, risk.Impact,
			strconv.Itoa(score), Band(float64(score)),
		})
	}
	rendered, err := export.RenderCSV(header, rows)
	if err != nil {
		return "", fmt.Errorf("riskassess: render export: %w", err)
	}
	name := export.Filename("risk_register", "", "csv", ctx.Now())
	path, err := export.WriteArtifact(ctx.Workspace.ExportsDir(), name, rendered)
	if err != nil {
		return "", err
	}
	ctx.Logbook.Record(workspace.KeyRiskAssessment, "exported risk register to %s", name)
	return path, nil
}
