// Package soa implements the Statement of Applicability module: one
// applicability decision per Annex A control. Its statuses feed every other
// module's auto-select derivation.
package soa

import (
	"fmt"
	"strings"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/resolver"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "statement-of-applicability"

// Record is the applicability decision for one control.
type Record struct {
	ControlID           string `json:"controlId"`
	Status              string `json:"status"`
	Justification       string `json:"justification,omitempty"`
	ImplementationNotes string `json:"implementationNotes,omitempty"`
}

// Data is the SoA module's persisted payload. Records keep first-decision
// order; upserts replace in place.
type Data struct {
	Records []Record `json:"records"`
}

// Defaults returns an empty statement.
func Defaults() Data {
	return Data{}
}

// Store opens the SoA module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyStatementOfApplicability, ctx.Workspace.KeyPath(workspace.KeyStatementOfApplicability), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// SetStatus upserts the applicability decision for a control: at most one
// record per control id, latest decision wins.
func (d *Data) SetStatus(controlID, status, justification string) (Record, error) {
	controlID = strings.TrimSpace(controlID)
	if _, ok := catalog.ControlByID(controlID); !ok {
		return Record{}, fmt.Errorf("soa: unknown control %q", controlID)
	}
	switch status {
	case resolver.StatusApplicable, resolver.StatusPartiallyApplicable,
		resolver.StatusNotApplicable, resolver.StatusToBeDetermined:
	default:
		return Record{}, fmt.Errorf("soa: unknown status %q", status)
	}
	rec := Record{ControlID: controlID, Status: status, Justification: strings.TrimSpace(justification)}
	for i, existing := range d.Records {
		if existing.ControlID == controlID {
			rec.ImplementationNotes = existing.ImplementationNotes
			d.Records[i] = rec
			return rec, nil
		}
	}
	d.Records = append(d.Records, rec)
	return rec, nil
}

// Status implements resolver.Applicability over the decided records.
func (d Data) Status(controlID string) (string, bool) {
	for _, rec := range d.Records {
		if rec.ControlID == controlID {
			return rec.Status, true
		}
	}
	return "", false
}

// ApplicableCount returns how many controls are applicable or partially
// applicable.
func (d Data) ApplicableCount() int {
	count := 0
	for _, rec := range d.Records {
		if resolver.Applies(rec.Status) {
			count++
		}
	}
	return count
}

// Applicability loads the persisted statement for use by sibling modules'
// derivations. Read-only: callers get a value copy.
func Applicability(ctx *module.Context) resolver.Applicability {
	return Store(ctx).Load().Data
}
