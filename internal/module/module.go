// Package module defines the runtime contract every compliance module
// implements: identity metadata, the storage key it owns, the sibling keys it
// reads for integration, and the export entry point. Modules never write to a
// sibling's storage key; cross-module influence happens only through the
// derive operation a module runs against its own state.
package module

import (
	"fmt"
	"time"
)

// Info describes a module's identity and intent.
type Info struct {
	ID          string
	Name        string
	Description string
	Version     string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("module: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("module: name is required for %s", i.ID)
	}
	if i.Version == "" {
		return fmt.Errorf("module: version is required for %s", i.ID)
	}
	return nil
}

// Summary is the board-level view of one module's persisted state.
type Summary struct {
	// Present reports whether the module has ever saved data.
	Present bool
	// Records is the number of records in the module's collection.
	Records int
	// LastUpdated is the envelope timestamp of the last save.
	LastUpdated time.Time
}

// Module is implemented by every compliance module.
type Module interface {
	Info() Info
	// StorageKey is the single storage key this module owns.
	StorageKey() string
	// Siblings lists the upstream storage keys probed for integration status.
	Siblings() []string
	// Summary inspects persisted state without mutating it.
	Summary(ctx *Context) Summary
	// Export writes the module's document artifact and returns its path.
	Export(ctx *Context) (string, error)
}

// Deriver is implemented by modules that can derive default selections from
// upstream data (the "auto-select" operation). Derivation only ever turns
// items on and is always explicitly invoked.
type Deriver interface {
	Derive(ctx *Context) (DeriveOutcome, error)
}

// DeriveOutcome reports what a derivation changed.
type DeriveOutcome struct {
	// Added lists the catalog item ids newly selected.
	Added []string
}
