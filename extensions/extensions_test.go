package extensions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kingrea/ismsforge/internal/catalog"
	"github.com/kingrea/ismsforge/internal/resolver"
)

const sampleYAML = `
id: acme-additions
name: Acme catalog additions
controls:
  - id: ACME.1
    title: Customer data residency
    domain: organizational
objectives:
  - id: OBJ-ACME-1
    name: Keep EU data in EU regions
objectiveRules:
  - controls: [ACME.1]
    targets: [OBJ-ACME-1]
`

func TestParseDefinitionYAML(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if def.ID != "acme-additions" || len(def.Controls) != 1 || len(def.ObjectiveRules) != 1 {
		t.Fatalf("definition = %+v", def)
	}
}

func TestParseDefinitionYAMLRejectsBadShapes(t *testing.T) {
	cases := []string{
		`name: missing id`,
		`id: x`,
		"id: x\nname: y\ncontrols:\n  - title: no id",
		"id: x\nname: y\nobjectiveRules:\n  - targets: [OBJ-1]",
	}
	for i, raw := range cases {
		if _, err := ParseDefinitionYAML([]byte(raw)); err == nil {
			t.Fatalf("case %d should be rejected", i)
		}
	}
}

func TestDiscoverMergesAndReportsProblems(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "acme.yaml"), []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	second := `
id: acme-training
name: Acme training additions
trainingPrograms:
  - id: TRN-ACME-1
    name: Residency handling
trainingRules:
  - controls: [ACME.1]
    targets: [TRN-ACME-1]
`
	if err := os.WriteFile(filepath.Join(dir, "training.yml"), []byte(second), 0o644); err != nil {
		t.Fatal(err)
	}

	bundle, files, problems := Discover(dir)
	if len(problems) != 0 {
		t.Fatalf("problems = %v", problems)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	if len(bundle.Controls) != 1 || len(bundle.TrainingPrograms) != 1 || len(bundle.TrainingRules) != 1 {
		t.Fatalf("bundle = %+v", bundle)
	}
}

func TestDiscoverSkipsDuplicateIds(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	bundle, files, problems := Discover(dir)
	if len(files) != 1 || len(problems) != 1 {
		t.Fatalf("files = %d problems = %v", len(files), problems)
	}
	if len(bundle.Controls) != 1 {
		t.Fatalf("duplicate definition merged twice: %+v", bundle)
	}
}

func TestDiscoverMissingDirIsEmpty(t *testing.T) {
	bundle, files, problems := Discover(filepath.Join(t.TempDir(), "absent"))
	if len(files) != 0 || len(problems) != 0 || len(bundle.Controls) != 0 {
		t.Fatalf("missing dir should yield nothing: %+v %v %v", bundle, files, problems)
	}
}

func TestLoadGoDefinitionDir(t *testing.T) {
	dir := t.TempDir()
	src := `package ext

func CatalogExtensions() ([]map[string]any, error) {
	return []map[string]any{
		{
			"id":   "go-additions",
			"name": "Scripted additions",
			"procedures": []map[string]any{
				{"id": "SOP-ACME-1", "name": "Residency review"},
			},
		},
	}, nil
}
`
	if err := os.WriteFile(filepath.Join(dir, "ext.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	defs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 || defs[0].Definition.ID != "go-additions" || len(defs[0].Definition.Procedures) != 1 {
		t.Fatalf("defs = %+v", defs)
	}
}

func TestApplyExtendsCatalogsAndRules(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	var bundle Bundle
	bundle.Merge(def)
	applied := Apply(bundle)
	if applied.Controls != 1 || applied.Objectives != 1 || applied.Rules != 1 {
		t.Fatalf("applied = %+v", applied)
	}
	if _, ok := catalog.ControlByID("ACME.1"); !ok {
		t.Fatal("extension control not visible in catalog")
	}
	if _, ok := catalog.ItemByID(catalog.Objectives(), "OBJ-ACME-1"); !ok {
		t.Fatal("extension objective not visible in catalog")
	}
	rules := resolver.ExtraRules(resolver.RuleScopeObjectives)
	if len(rules) != 1 || rules[0].Targets[0] != "OBJ-ACME-1" {
		t.Fatalf("extra rules = %+v", rules)
	}

	// Applying the same bundle twice must not duplicate catalog entries.
	again := Apply(bundle)
	if again.Controls != 0 || again.Objectives != 0 {
		t.Fatalf("reapply added entries: %+v", again)
	}
}
