// Package treatmentplan implements the risk treatment plan module: one
// implementation plan per Annex A control, with phase, status, priority, and
// milestones owned by the plan.
package treatmentplan

import (
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "treatment-plan"

// Implementation phases.
const (
	PhaseOne     = "phase-1"
	PhaseTwo     = "phase-2"
	PhaseThree   = "phase-3"
	PhaseOngoing = "ongoing"
)

// Plan statuses. Any status may be set from any other; there is no enforced
// transition graph, the user keeps full manual control.
const (
	StatusNotStarted = "not-started"
	StatusPlanning   = "planning"
	StatusInProgress = "in-progress"
	StatusTesting    = "testing"
	StatusComplete   = "complete"
	StatusOnHold     = "on-hold"
)

// Priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// ValidPhase reports whether p is a known phase.
func ValidPhase(p string) bool {
	switch p {
	case PhaseOne, PhaseTwo, PhaseThree, PhaseOngoing:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known plan status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusPlanning, StatusInProgress, StatusTesting, StatusComplete, StatusOnHold:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Milestone is a dated step inside a plan. Milestones have no lifecycle of
// their own; they live and die with their parent plan.
type Milestone struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	TargetDate    string `json:"targetDate"`
	Completed     bool   `json:"completed"`
	CompletedDate string `json:"completedDate,omitempty"`
}

// Plan is the implementation plan for one control.
type Plan struct {
	ControlID  string      `json:"controlId"`
	Phase      string      `json:"phase"`
	Status     string      `json:"status"`
	Priority   string      `json:"priority"`
	Owner      string      `json:"owner,omitempty"`
	Milestones []Milestone `json:"milestones"`
}

// Data is the treatment plan module's persisted payload.
type Data struct {
	Plans []Plan `json:"plans"`
}

// Defaults returns an empty plan register.
func Defaults() Data {
	return Data{}
}

// Store opens the treatment plan module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyRiskTreatmentPlans, ctx.Workspace.KeyPath(workspace.KeyRiskTreatmentPlans), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// Save upserts the plan for p.ControlID: at most one plan per control, and
// the latest save wins. Milestones travel with the plan unchanged.
func (d *Data) Save(p Plan) (Plan, error) {
	p.ControlID = strings.TrimSpace(p.ControlID)
	if p.ControlID == "" {
		return Plan{}, fmt.Errorf("treatmentplan: controlId is required")
	}
	if _, ok := catalog.ControlByID(p.ControlID); !ok {
		return Plan{}, fmt.Errorf("treatmentplan: unknown control %q", p.ControlID)
	}
	if !ValidPhase(p.Phase) {
		return Plan{}, fmt.Errorf("treatmentplan: unknown phase %q", p.Phase)
	}
	if !ValidStatus(p.Status) {
		return Plan{}, fmt.Errorf("treatmentplan: unknown status %q", p.Status)
	}
	if !ValidPriority(p.Priority) {
		return Plan{}, fmt.Errorf("treatmentplan: unknown priority %q", p.Priority)
	}
	for i, existing := range d.Plans {
		if existing.ControlID == p.ControlID {
			d.Plans[i] = p
			return p, nil
		}
	}
	d.Plans = append(d.Plans, p)
	return p, nil
}

// Delete removes the plan for a control id, milestones included.
func (d *Data) Delete(controlID string) bool {
	for i, p := range d.Plans {
		if p.ControlID == controlID {
			d.Plans = append(d.Plans[:i], d.Plans[i+1:]...)
			return true
		}
	}
	return false
}

// ForControl returns the plan for a control id, if any.
func (d Data) ForControl(controlID string) (Plan, bool) {
	for _, p := range d.Plans {
		if p.ControlID == controlID {
			return p, true
		}
	}
	return Plan{}, false
}

// AddMilestone appends a milestone to the plan for controlID, drawing the
// milestone id from the document's monotonic counter so ids stay unique
// across deletions.
func AddMilestone(doc *store.Doc[Data], controlID, description, targetDate string) (Milestone, error) {
	for i, p := range doc.Data.Plans {
		if p.ControlID != controlID {
			continue
		}
		syncSeq(doc)
		ms := Milestone{
			ID:          fmt.Sprintf("MS-%03d", doc.NextSeq()),
			Description: strings.TrimSpace(description),
			TargetDate:  targetDate,
		}
		doc.Data.Plans[i].Milestones = append(doc.Data.Plans[i].Milestones, ms)
		return ms, nil
	}
	return Milestone{}, fmt.Errorf("treatmentplan: no plan for control %q", controlID)
}

// CompleteMilestone marks a milestone done with the given completion time.
func CompleteMilestone(doc *store.Doc[Data], controlID, milestoneID string, at time.Time) error {
	for i, p := range doc.Data.Plans {
		if p.ControlID != controlID {
			continue
		}
		for j, ms := range p.Milestones {
			if ms.ID == milestoneID {
				doc.Data.Plans[i].Milestones[j].Completed = true
				doc.Data.Plans[i].Milestones[j].CompletedDate = at.UTC().Format("2006-01-02")
				return nil
			}
		}
	}
	return fmt.Errorf("treatmentplan: milestone %s not found under %s", milestoneID, controlID)
}

// syncSeq advances the document counter past any milestone id already present,
// covering documents migrated from before the counter existed.
func syncSeq(doc *store.Doc[Data]) {
	for _, p := range doc.Data.Plans {
		for _, ms := range p.Milestones {
			var n int64
			if _, err := fmt.Sscanf(ms.ID, "MS-%d", &n); err == nil && n > doc.Meta.NextSeq {
				doc.Meta.NextSeq = n
			}
		}
	}
}
