// Package modules wires every built-in compliance module into a registry.
package modules

import (
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/modules/corrective"
	"github.com/kingrea/ismsforge/internal/modules/objectives"
	"github.com/kingrea/ismsforge/internal/modules/procedures"
	"github.com/kingrea/ismsforge/internal/modules/riskassess"
	"github.com/kingrea/ismsforge/internal/modules/risktreatment"
	"github.com/kingrea/ismsforge/internal/modules/scope"
	"github.com/kingrea/ismsforge/internal/modules/soa"
	"github.com/kingrea/ismsforge/internal/modules/tracking"
	"github.com/kingrea/ismsforge/internal/modules/training"
	"github.com/kingrea/ismsforge/internal/modules/treatmentplan"
)

// Registry returns a registry with every built-in module installed, in the
// wizard's presentation order for listing purposes.
func Registry() *module.Registry {
	r := module.NewRegistry()
	r.MustRegister(scope.ID, scope.New)
	r.MustRegister(riskassess.ID, riskassess.New)
	r.MustRegister(risktreatment.ID, risktreatment.New)
	r.MustRegister(treatmentplan.ID, treatmentplan.New)
	r.MustRegister(soa.ID, soa.New)
	r.MustRegister(corrective.ID, corrective.New)
	r.MustRegister(objectives.ID, objectives.New)
	r.MustRegister(procedures.ID, procedures.New)
	r.MustRegister(training.ID, training.New)
	r.MustRegister(tracking.ID, tracking.New)
	return r
}

// Order lists module ids in presentation order, mirroring the wizard's board.
func Order() []string {
	return []string{
		scope.ID,
		riskassess.ID,
		risktreatment.ID,
		treatmentplan.ID,
		soa.ID,
		corrective.ID,
		objectives.ID,
		procedures.ID,
		training.ID,
		tracking.ID,
	}
}
