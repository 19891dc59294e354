package extensions

import (
	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/resolver"
)

// Applied summarizes what Apply registered.
type Applied struct {
	Controls         int
	Objectives       int
	Procedures       int
	TrainingPrograms int
	Rules            int
}

// Total returns the number of catalog entries and rules registered.
func (a Applied) Total() int {
	return a.Controls + a.Objectives + a.Procedures + a.TrainingPrograms + a.Rules
}

// Apply registers a merged extension bundle with the catalog and the
// derivation rule scopes. Meant to run once at startup, after Discover.
func Apply(b Bundle) Applied {
	applied := Applied{
		Controls:         catalog.ExtendControls(b.Controls),
		Objectives:       catalog.ExtendObjectives(b.Objectives),
		Procedures:       catalog.ExtendProcedures(b.Procedures),
		TrainingPrograms: catalog.ExtendTrainingPrograms(b.TrainingPrograms),
	}
	resolver.ExtendRules(resolver.RuleScopeObjectives, b.ObjectiveRules)
	resolver.ExtendRules(resolver.RuleScopeProcedures, b.ProcedureRules)
	resolver.ExtendRules(resolver.RuleScopeTraining, b.TrainingRules)
	applied.Rules = len(b.ObjectiveRules) + len(b.ProcedureRules) + len(b.TrainingRules)
	return applied
}
