// internal/workspace/workspace.go
//
// Defines the .ismsforge workspace directory structure and the storage keys
// each compliance module persists under. Every project that uses ismsforge
// gets an .ismsforge/ folder created in its root; module state lives in
// .ismsforge/state/<key>.json so the whole workspace is git-trackable.

package workspace

import (
	"os"
	"path/filepath"
)

const (
	// ForgeDir is the name of the directory created in each project root.
	ForgeDir = ".ismsforge"

	stateDir      = "state"
	exportsDir    = "exports"
	logsDir       = "logs"
	extensionsDir = "extensions"
)

// Storage keys. One key per module; the key doubles as the state file stem.
// The names are part of the persistence contract and must not change without
// a schema migration.
const (
	KeyScope                    = "isms-scope-data"
	KeyRiskAssessment           = "isms-risk-assessment"
	KeyCorrectiveActions        = "isms-corrective-actions"
	KeyRiskTreatments           = "riskTreatments"
	KeyRiskTreatmentPlans       = "riskTreatmentPlans"
	KeyStatementOfApplicability = "statementOfApplicability"
	KeyObjectives               = "informationSecurityObjectives"
	KeyProcedures               = "securityOperatingProcedures"
	KeyTraining                 = "trainingAwareness"
	KeyTracking                 = "implementationTracking"
)

// AllKeys returns every known storage key in presentation order.
func AllKeys() []string {
	return []string{
		KeyScope,
		KeyRiskAssessment,
		KeyRiskTreatments,
		KeyRiskTreatmentPlans,
		KeyStatementOfApplicability,
		KeyCorrectiveActions,
		KeyObjectives,
		KeyProcedures,
		KeyTraining,
		KeyTracking,
	}
}

// Workspace resolves paths inside a project's .ismsforge directory.
type Workspace struct {
	projectDir string
}

// New creates a workspace manager rooted at the given project directory.
func New(projectDir string) *Workspace {
	return &Workspace{projectDir: projectDir}
}

// ProjectDir returns the directory the user ran ismsforge from.
func (w *Workspace) ProjectDir() string {
	return w.projectDir
}

// Dir returns the .ismsforge root for this project.
func (w *Workspace) Dir() string {
	return filepath.Join(w.projectDir, ForgeDir)
}

// StateDir returns the directory holding one JSON document per storage key.
func (w *Workspace) StateDir() string {
	return filepath.Join(w.Dir(), stateDir)
}

// ExportsDir returns the directory generated documents are written to.
func (w *Workspace) ExportsDir() string {
	return filepath.Join(w.Dir(), exportsDir)
}

// LogsDir returns the directory for the application log.
func (w *Workspace) LogsDir() string {
	return filepath.Join(w.Dir(), logsDir)
}

// ExtensionsDir returns the directory scanned for catalog extensions.
func (w *Workspace) ExtensionsDir() string {
	return filepath.Join(w.Dir(), extensionsDir)
}

// ConfigPath returns the on-disk location of the workspace config file.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.Dir(), "config.yaml")
}

// LogbookPath returns the activity logbook location.
func (w *Workspace) LogbookPath() string {
	return filepath.Join(w.LogsDir(), "activity.log")
}

// KeyPath maps a storage key to its state file.
func (w *Workspace) KeyPath(key string) string {
	return filepath.Join(w.StateDir(), key+".json")
}

// HasKey reports whether a module has ever persisted data under key.
func (w *Workspace) HasKey(key string) bool {
	info, err := os.Stat(w.KeyPath(key))
	return err == nil && !info.IsDir()
}

// Init creates the workspace directory structure. Safe to call repeatedly.
func (w *Workspace) Init() error {
	dirs := []string{
		w.StateDir(),
		w.ExportsDir(),
		w.LogsDir(),
		w.ExtensionsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
