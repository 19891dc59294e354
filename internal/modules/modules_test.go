package modules

import (
	"testing"

	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/workspace"
)

func TestEveryBuiltinResolvesWithUniqueStorageKey(t *testing.T) {
	registry := Registry()
	keys := map[string]string{}
	for _, id := range Order() {
		mod, err := registry.Resolve(id)
		if err != nil {
			t.Fatalf("resolve %s: %v", id, err)
		}
		key := mod.StorageKey()
		if owner, taken := keys[key]; taken {
			t.Fatalf("storage key %s claimed by both %s and %s", key, owner, id)
		}
		keys[key] = id
	}
	if len(keys) != len(workspace.AllKeys()) {
		t.Fatalf("modules cover %d storage keys, workspace declares %d", len(keys), len(workspace.AllKeys()))
	}
}

func TestSiblingsReferenceKnownKeys(t *testing.T) {
	known := map[string]bool{}
	for _, key := range workspace.AllKeys() {
		known[key] = true
	}
	registry := Registry()
	for _, id := range Order() {
		mod, err := registry.Resolve(id)
		if err != nil {
			t.Fatal(err)
		}
		for _, sibling := range mod.Siblings() {
			if !known[sibling] {
				t.Fatalf("module %s probes unknown key %s", id, sibling)
			}
			if sibling == mod.StorageKey() {
				t.Fatalf("module %s lists itself as a sibling", id)
			}
		}
	}
}

func TestDeriversAreTheExpectedModules(t *testing.T) {
	wantDerivers := map[string]bool{
		"security-objectives":     true,
		"operating-procedures":    true,
		"training-awareness":      true,
		"implementation-tracking": true,
	}
	registry := Registry()
	for _, id := range Order() {
		mod, err := registry.Resolve(id)
		if err != nil {
			t.Fatal(err)
		}
		_, isDeriver := mod.(module.Deriver)
		if isDeriver != wantDerivers[id] {
			t.Fatalf("module %s deriver = %v, want %v", id, isDeriver, wantDerivers[id])
		}
	}
}
