// Package resolver implements the read-only integration layer between
// compliance modules. It answers two questions: which upstream modules have
// produced data (presence probing), and which catalog items should a module
// pre-select given the controls the Statement of Applicability marks
// applicable (auto-select derivation).
//
// The resolver never writes to a sibling module's storage key. Derivation
// mutates only the selection passed in, only ever turns items on, and is
// idempotent: running it twice yields the same selection as running it once.
package resolver

import (
	"sort"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// Applicability statuses that count as "on" for derivation purposes.
const (
	StatusApplicable          = "applicable"
	StatusPartiallyApplicable = "partially-applicable"
	StatusNotApplicable       = "not-applicable"
	StatusToBeDetermined      = "to-be-determined"
)

// Applies reports whether an applicability status triggers derivation.
func Applies(status string) bool {
	return status == StatusApplicable || status == StatusPartiallyApplicable
}

// Presence maps a storage key to whether that module has persisted data.
type Presence map[string]bool

// Probe tests each storage key for persisted data. Used by modules to render
// their integration status line.
func Probe(ws *workspace.Workspace, keys []string) Presence {
	presence := make(Presence, len(keys))
	for _, key := range keys {
		presence[key] = ws.HasKey(key)
	}
	return presence
}

// AllPresent reports whether every probed key has data.
func (p Presence) AllPresent() bool {
	for _, ok := range p {
		if !ok {
			return false
		}
	}
	return true
}

// Applicability exposes the SoA's per-control status to derivation rules.
// Implemented by the statement-of-applicability module's record set.
type Applicability interface {
	// Status returns the applicability status for a control id, and whether
	// the control has a record at all.
	Status(controlID string) (string, bool)
}

// Rule associates Annex A controls with the catalog items they imply. When
// any listed control is applicable (or partially applicable) upstream, every
// target item is selected. Rules are static association tables authored per
// module, not a general rule engine.
type Rule struct {
	Controls []string `json:"controls" yaml:"controls"`
	Targets  []string `json:"targets" yaml:"targets"`
}

// Outcome reports what AutoSelect changed.
type Outcome struct {
	// Added lists the item ids newly selected, sorted.
	Added []string
	// Matched counts the rules whose control predicate held.
	Matched int
}

// AutoSelect applies the mapping rules to a selection. Items already selected
// stay selected regardless of rule outcomes, so a user's manual choices are
// never undone.
func AutoSelect(sel *catalog.Selection, rules []Rule, app Applicability) Outcome {
	var outcome Outcome
	for _, rule := range rules {
		if !ruleApplies(rule, app) {
			continue
		}
		outcome.Matched++
		for _, target := range rule.Targets {
			if sel.Select(target) {
				outcome.Added = append(outcome.Added, target)
			}
		}
	}
	sort.Strings(outcome.Added)
	return outcome
}

func ruleApplies(rule Rule, app Applicability) bool {
	if app == nil {
		return false
	}
	for _, controlID := range rule.Controls {
		status, ok := app.Status(controlID)
		if ok && Applies(status) {
			return true
		}
	}
	return false
}
