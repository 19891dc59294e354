// Package corrective implements the corrective actions module: the
// non-conformity register with root-cause analysis, corrective action, and
// verification fields.
package corrective

import (
	"fmt"
	"strings"

	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "corrective-actions"

// Non-conformity statuses. Any status may be set from any other; there is no
// enforced transition graph.
const (
	StatusIdentified    = "identified"
	StatusAnalyzing     = "analyzing"
	StatusActionPlanned = "action-planned"
	StatusImplementing  = "implementing"
	StatusVerifying     = "verifying"
	StatusClosed        = "closed"
)

// Severities.
const (
	SeverityMinor    = "minor"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// ValidStatus reports whether s is a known non-conformity status.
func ValidStatus(s string) bool {
	switch s {
	case StatusIdentified, StatusAnalyzing, StatusActionPlanned, StatusImplementing, StatusVerifying, StatusClosed:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

// NonConformity is one register entry. Ids are formatted NC-NNN and drawn
// from the document's monotonic counter, so a delete followed by a create
// never reissues an id.
type NonConformity struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Status           string `json:"status"`
	Severity         string `json:"severity"`
	RootCause        string `json:"rootCause,omitempty"`
	CorrectiveAction string `json:"correctiveAction,omitempty"`
	Verification     string `json:"verification,omitempty"`
	RaisedDate       string `json:"raisedDate,omitempty"`
}

// Data is the corrective actions module's persisted payload.
type Data struct {
	NonConformities []NonConformity `json:"nonConformities"`
}

// Defaults seeds one worked sample non-conformity so a fresh workspace shows
// the register shape.
func Defaults() Data {
	return Data{NonConformities: []NonConformity{{
		ID:               "NC-001",
		Title:            "Access reviews overdue for finance systems",
		Description:      "Quarterly access review for the finance ERP was not performed in Q2.",
		Status:           StatusAnalyzing,
		Severity:         SeverityMajor,
		RootCause:        "Review owner left; task not reassigned.",
		CorrectiveAction: "Reassign review ownership and add calendar-driven reminders.",
	}}}
}

// Store opens the corrective actions module's backing store. Version-0
// documents carried the register without a counter; the migration leaves the
// payload alone and Create re-syncs the counter from existing ids.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyCorrectiveActions, ctx.Workspace.KeyPath(workspace.KeyCorrectiveActions), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithMigration[Data](func(version int, raw []byte) ([]byte, error) { return raw, nil }),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// Create appends a new non-conformity. Fields merge over the defaults
// (status identified, severity minor); the id comes from the monotonic
// counter, never from the collection length.
func Create(doc *store.Doc[Data], nc NonConformity) (NonConformity, error) {
	nc.Title = strings.TrimSpace(nc.Title)
	if nc.Title == "" {
		return NonConformity{}, fmt.Errorf("corrective: title is required")
	}
	if nc.Status == "" {
		nc.Status = StatusIdentified
	}
	if nc.Severity == "" {
		nc.Severity = SeverityMinor
	}
	if !ValidStatus(nc.Status) {
		return NonConformity{}, fmt.Errorf("corrective: unknown status %q", nc.Status)
	}
	if !ValidSeverity(nc.Severity) {
		return NonConformity{}, fmt.Errorf("corrective: unknown severity %q", nc.Severity)
	}
	syncSeq(doc)
	nc.ID = fmt.Sprintf("NC-%03d", doc.NextSeq())
	doc.Data.NonConformities = append(doc.Data.NonConformities, nc)
	return nc, nil
}

// Update shallow-merges non-empty fields of patch into the record with the
// given id.
func (d *Data) Update(id string, patch NonConformity) (NonConformity, error) {
	for i, nc := range d.NonConformities {
		if nc.ID != id {
			continue
		}
		if patch.Title != "" {
			nc.Title = patch.Title
		}
		if patch.Description != "" {
			nc.Description = patch.Description
		}
		if patch.Status != "" {
			if !ValidStatus(patch.Status) {
				return NonConformity{}, fmt.Errorf("corrective: unknown status %q", patch.Status)
			}
			nc.Status = patch.Status
		}
		if patch.Severity != "" {
			if !ValidSeverity(patch.Severity) {
				return NonConformity{}, fmt.Errorf("corrective: unknown severity %q", patch.Severity)
			}
			nc.Severity = patch.Severity
		}
		if patch.RootCause != "" {
			nc.RootCause = patch.RootCause
		}
		if patch.CorrectiveAction != "" {
			nc.CorrectiveAction = patch.CorrectiveAction
		}
		if patch.Verification != "" {
			nc.Verification = patch.Verification
		}
		d.NonConformities[i] = nc
		return nc, nil
	}
	return NonConformity{}, fmt.Errorf("corrective: no record %s", id)
}

// Delete removes a record by id.
func (d *Data) Delete(id string) bool {
	for i, nc := range d.NonConformities {
		if nc.ID == id {
			d.NonConformities = append(d.NonConformities[:i], d.NonConformities[i+1:]...)
			return true
		}
	}
	return false
}

// ByID finds a record by id.
func (d Data) ByID(id string) (NonConformity, bool) {
	for _, nc := range d.NonConformities {
		if nc.ID == id {
			return nc, true
		}
	}
	return NonConformity{}, false
}

// syncSeq advances the counter past every id already in the register. Covers
// both the seeded sample record and documents migrated from before the
// counter existed.
func syncSeq(doc *store.Doc[Data]) {
	for _, nc := range doc.Data.NonConformities {
		var n int64
		if _, err := fmt.Sscanf(nc.ID, "NC-%d", &n); err == nil && n > doc.Meta.NextSeq {
			doc.Meta.NextSeq = n
		}
	}
}
