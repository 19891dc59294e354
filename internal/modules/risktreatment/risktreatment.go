// Package risktreatment implements the risk treatment module: one treatment
// decision per assessed risk, with strategy, selected Annex A controls, and
// the derived residual risk.
package risktreatment

import (
	"fmt"
	"math"
	"strings"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/riskassess"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "risk-treatment"

// Treatment strategies.
const (
	StrategyMitigate = "mitigate"
	StrategyAccept   = "accept"
	StrategyTransfer = "transfer"
	StrategyAvoid    = "avoid"
)

// ValidStrategy reports whether s is one of the four treatment strategies.
func ValidStrategy(s string) bool {
	switch s {
	case StrategyMitigate, StrategyAccept, StrategyTransfer, StrategyAvoid:
		return true
	}
	return false
}

// Treatment is the treatment decision for one risk. At most one exists per
// RiskID; saving again for the same risk replaces the earlier decision.
type Treatment struct {
	RiskID        string   `json:"riskId"`
	Strategy      string   `json:"strategy"`
	Controls      []string `json:"controls"`
	Owner         string   `json:"owner"`
	Justification string   `json:"justification"`
	ResidualScore float64  `json:"residualScore"`
	ResidualLevel string   `json:"residualLevel"`
}

// Data is the risk treatment module's persisted payload. Treatments keep
// first-save order for display; upserts replace in place.
type Data struct {
	Treatments []Treatment `json:"treatments"`
}

// Defaults returns an empty treatment register.
func Defaults() Data {
	return Data{}
}

// Store opens the risk treatment module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyRiskTreatments, ctx.Workspace.KeyPath(workspace.KeyRiskTreatments), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// Residual computes the residual risk score after applying controls: each
// selected control reduces the original score by 30%, the total reduction
// caps at 80%, and the result never drops below 1. Adding controls can only
// lower the residual, never raise it.
func Residual(score int, controlCount int) float64 {
	if controlCount < 0 {
		controlCount = 0
	}
	reduction := math.Min(0.3*float64(controlCount), 0.8)
	residual := float64(score) * (1 - reduction)
	if residual < 1 {
		residual = 1
	}
	return residual
}

// Save upserts the treatment for t.RiskID: at most one treatment per risk,
// and the latest save wins. Residual fields are recomputed here so persisted
// state can never disagree with the formula.
func (d *Data) Save(t Treatment, originalScore int) (Treatment, error) {
	t.RiskID = strings.TrimSpace(t.RiskID)
	if t.RiskID == "" {
		return Treatment{}, fmt.Errorf("risktreatment: riskId is required")
	}
	if !ValidStrategy(t.Strategy) {
		return Treatment{}, fmt.Errorf("risktreatment: unknown strategy %q", t.Strategy)
	}
	t.Controls = dedupControls(t.Controls)
	t.ResidualScore = Residual(originalScore, len(t.Controls))
	t.ResidualLevel = riskassess.Band(t.ResidualScore)

	for i, existing := range d.Treatments {
		if existing.RiskID == t.RiskID {
			d.Treatments[i] = t
			return t, nil
		}
	}
	d.Treatments = append(d.Treatments, t)
	return t, nil
}

// Delete removes the treatment for a risk id.
func (d *Data) Delete(riskID string) bool {
	for i, t := range d.Treatments {
		if t.RiskID == riskID {
			d.Treatments = append(d.Treatments[:i], d.Treatments[i+1:]...)
			return true
		}
	}
	return false
}

// ForRisk returns the treatment for a risk id, if any.
func (d Data) ForRisk(riskID string) (Treatment, bool) {
	for _, t := range d.Treatments {
		if t.RiskID == riskID {
			return t, true
		}
	}
	return Treatment{}, false
}

func dedupControls(controls []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, id := range controls {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, ok := catalog.ControlByID(id); !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
