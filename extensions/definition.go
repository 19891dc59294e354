// Package extensions loads organization-specific catalog additions from the
// workspace extensions directory: extra Annex A-style controls, objectives,
// procedures, training programs, and extra auto-select mapping rules.
// Definitions come from YAML files or from Go files evaluated in-process;
// both normalize into the same Definition shape.
package extensions

import (
	"fmt"
	"strings"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/resolver"
)

// Definition is one extension file's payload.
type Definition struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Controls         []catalog.Control `yaml:"controls,omitempty" json:"controls,omitempty"`
	Objectives       []catalog.Item    `yaml:"objectives,omitempty" json:"objectives,omitempty"`
	Procedures       []catalog.Item    `yaml:"procedures,omitempty" json:"procedures,omitempty"`
	TrainingPrograms []catalog.Item    `yaml:"trainingPrograms,omitempty" json:"trainingPrograms,omitempty"`

	ObjectiveRules []resolver.Rule `yaml:"objectiveRules,omitempty" json:"objectiveRules,omitempty"`
	ProcedureRules []resolver.Rule `yaml:"procedureRules,omitempty" json:"procedureRules,omitempty"`
	TrainingRules  []resolver.Rule `yaml:"trainingRules,omitempty" json:"trainingRules,omitempty"`
}

// DefinitionFile pairs a parsed definition with its source path for error
// reporting.
type DefinitionFile struct {
	Definition Definition
	Path       string
}

// Normalize trims identifiers and display strings in place.
func (d *Definition) Normalize() {
	if d == nil {
		return
	}
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	for i := range d.Controls {
		d.Controls[i].ID = strings.TrimSpace(d.Controls[i].ID)
		d.Controls[i].Title = strings.TrimSpace(d.Controls[i].Title)
	}
	for _, items := range [][]catalog.Item{d.Objectives, d.Procedures, d.TrainingPrograms} {
		for i := range items {
			items[i].ID = strings.TrimSpace(items[i].ID)
			items[i].Name = strings.TrimSpace(items[i].Name)
		}
	}
}

// Validate enforces the minimum shape for a usable definition.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("extension: id is required")
	}
	if d.Name == "" {
		return fmt.Errorf("extension: name is required for %s", d.ID)
	}
	for _, c := range d.Controls {
		if c.ID == "" || c.Title == "" {
			return fmt.Errorf("extension: %s has a control without id or title", d.ID)
		}
	}
	for _, items := range [][]catalog.Item{d.Objectives, d.Procedures, d.TrainingPrograms} {
		for _, item := range items {
			if item.ID == "" || item.Name == "" {
				return fmt.Errorf("extension: %s has a catalog item without id or name", d.ID)
			}
		}
	}
	for _, rules := range [][]resolver.Rule{d.ObjectiveRules, d.ProcedureRules, d.TrainingRules} {
		for _, rule := range rules {
			if len(rule.Controls) == 0 || len(rule.Targets) == 0 {
				return fmt.Errorf("extension: %s has a rule without controls or targets", d.ID)
			}
		}
	}
	return nil
}

// Bundle is the merged view over every loaded extension.
type Bundle struct {
	Controls         []catalog.Control
	Objectives       []catalog.Item
	Procedures       []catalog.Item
	TrainingPrograms []catalog.Item
	ObjectiveRules   []resolver.Rule
	ProcedureRules   []resolver.Rule
	TrainingRules    []resolver.Rule
}

// Merge folds a definition into the bundle.
func (b *Bundle) Merge(d Definition) {
	b.Controls = append(b.Controls, d.Controls...)
	b.Objectives = append(b.Objectives, d.Objectives...)
	b.Procedures = append(b.Procedures, d.Procedures...)
	b.TrainingPrograms = append(b.TrainingPrograms, d.TrainingPrograms...)
	b.ObjectiveRules = append(b.ObjectiveRules, d.ObjectiveRules...)
	b.ProcedureRules = append(b.ProcedureRules, d.ProcedureRules...)
	b.TrainingRules = append(b.TrainingRules, d.TrainingRules...)
}
