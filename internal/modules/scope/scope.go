// Package scope implements the ISMS scope module: organization context,
// internal/external issues, interested parties, interfaces and dependencies,
// exclusions, and the scope statement itself. This is the root document every
// other module's export borrows the organization name from.
package scope

import (
	"strings"

	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "scope"

// Party is an interested party with its requirements and influence.
type Party struct {
	Party        string `json:"party"`
	Requirements string `json:"requirements"`
	Influence    string `json:"influence"`
}

// Interface records a system dependency crossing the scope boundary.
type Interface struct {
	System     string `json:"system"`
	Dependency string `json:"dependency"`
	Impact     string `json:"impact"`
}

// Exclusion is a scoped-out item with its justification.
type Exclusion struct {
	Item          string `json:"item"`
	Justification string `json:"justification"`
}

// Statement is the nested scope-document object.
type Statement struct {
	Processes   []string `json:"processes"`
	Departments []string `json:"departments"`
	Locations   []string `json:"locations"`
	Notes       string   `json:"notes"`
}

// Data is the scope module's persisted payload. All lists are duplicate-free
// by value equality with insertion order preserved for display; a predefined
// catalog entry and a free-text entry are indistinguishable once added.
type Data struct {
	Organization   string      `json:"organization"`
	InternalIssues []string    `json:"internalIssues"`
	ExternalIssues []string    `json:"externalIssues"`
	Parties        []Party     `json:"interestedParties"`
	Interfaces     []Interface `json:"interfaces"`
	Exclusions     []Exclusion `json:"exclusions"`
	Statement      Statement   `json:"scopeDocument"`
	// Narrative is the LLM-drafted scope prose, stored verbatim as Markdown.
	Narrative string `json:"narrative,omitempty"`
}

// Predefined issue catalogs offered in the wizard. Choosing one adds the plain
// string; nothing marks it as catalog-sourced afterwards.
var (
	PredefinedInternalIssues = []string{
		"Organizational restructuring",
		"Legacy systems nearing end of life",
		"Limited security staffing",
		"Rapid growth straining processes",
	}
	PredefinedExternalIssues = []string{
		"Evolving regulatory requirements",
		"Increased ransomware activity in the sector",
		"Supply chain dependency risk",
		"Customer security expectations",
	}
)

// Defaults returns the payload used when the storage key is absent.
func Defaults() Data {
	return Data{}
}

// Store opens the scope module's backing store with the context's clock,
// logger, and data-updated fanout attached.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyScope, ctx.Workspace.KeyPath(workspace.KeyScope), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithMigration[Data](migrate),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// appendUnique adds value to list unless an equal entry already exists.
// Returns the list and whether it changed.
func appendUnique(list []string, value string) ([]string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return list, false
	}
	for _, existing := range list {
		if existing == value {
			return list, false
		}
	}
	return append(list, value), true
}

// AddInternalIssue adds an internal issue; duplicates are no-ops.
func (d *Data) AddInternalIssue(issue string) bool {
	var changed bool
	d.InternalIssues, changed = appendUnique(d.InternalIssues, issue)
	return changed
}

// AddExternalIssue adds an external issue; duplicates are no-ops.
func (d *Data) AddExternalIssue(issue string) bool {
	var changed bool
	d.ExternalIssues, changed = appendUnique(d.ExternalIssues, issue)
	return changed
}

// RemoveInternalIssue deletes an internal issue by value.
func (d *Data) RemoveInternalIssue(issue string) bool {
	var removed bool
	d.InternalIssues, removed = removeValue(d.InternalIssues, issue)
	return removed
}

// RemoveExternalIssue deletes an external issue by value.
func (d *Data) RemoveExternalIssue(issue string) bool {
	var removed bool
	d.ExternalIssues, removed = removeValue(d.ExternalIssues, issue)
	return removed
}

func removeValue(list []string, value string) ([]string, bool) {
	for i, existing := range list {
		if existing == value {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// AddParty appends an interested party; duplicate tuples are no-ops.
func (d *Data) AddParty(p Party) bool {
	for _, existing := range d.Parties {
		if existing == p {
			return false
		}
	}
	d.Parties = append(d.Parties, p)
	return true
}

// AddInterface appends an interface record; duplicate tuples are no-ops.
func (d *Data) AddInterface(in Interface) bool {
	for _, existing := range d.Interfaces {
		if existing == in {
			return false
		}
	}
	d.Interfaces = append(d.Interfaces, in)
	return true
}

// AddExclusion appends an exclusion; duplicate tuples are no-ops.
func (d *Data) AddExclusion(ex Exclusion) bool {
	for _, existing := range d.Exclusions {
		if existing == ex {
			return false
		}
	}
	d.Exclusions = append(d.Exclusions, ex)
	return true
}

// AddProcess, AddDepartment, and AddLocation grow the scope statement lists
// with the same dedup rule as the issue lists.
func (d *Data) AddProcess(v string) bool {
	var changed bool
	d.Statement.Processes, changed = appendUnique(d.Statement.Processes, v)
	return changed
}

func (d *Data) AddDepartment(v string) bool {
	var changed bool
	d.Statement.Departments, changed = appendUnique(d.Statement.Departments, v)
	return changed
}

func (d *Data) AddLocation(v string) bool {
	var changed bool
	d.Statement.Locations, changed = appendUnique(d.Statement.Locations, v)
	return changed
}

// migrate upgrades version-0 documents. The legacy shape used the same field
// names, so the payload decodes as-is; the hook exists so older saves load
// without tripping the version check.
func migrate(version int, raw []byte) ([]byte, error) {
	return raw, nil
}

// Organization returns the persisted organization name for filename and
// header use by any module's exporter.
func Organization(ctx *module.Context) string {
	doc := Store(ctx).Load()
	return strings.TrimSpace(doc.Data.Organization)
}
