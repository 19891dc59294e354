package catalog

import "sync"

// Workspace extensions can append to the reference catalogs at startup.
// Extras are process-wide: modules read the merged view through the same
// accessors as the built-ins. Duplicate ids are ignored so a re-applied
// extension never doubles a catalog.

var (
	extMu           sync.RWMutex
	extraControls   []Control
	extraObjectives []Item
	extraProcedures []Item
	extraTraining   []Item
)

// ExtendControls appends controls to the Annex A catalog, skipping ids that
// already exist. Returns the number actually added.
func ExtendControls(controls []Control) int {
	extMu.Lock()
	defer extMu.Unlock()
	added := 0
	for _, c := range controls {
		if _, exists := controlByIDLocked(c.ID); exists {
			continue
		}
		extraControls = append(extraControls, c)
		added++
	}
	return added
}

// ExtendObjectives appends items to the objective catalog.
func ExtendObjectives(items []Item) int {
	return extendItems(&extraObjectives, builtinObjectives, items)
}

// ExtendProcedures appends items to the operating procedure catalog.
func ExtendProcedures(items []Item) int {
	return extendItems(&extraProcedures, builtinProcedures, items)
}

// ExtendTrainingPrograms appends items to the training program catalog.
func ExtendTrainingPrograms(items []Item) int {
	return extendItems(&extraTraining, builtinTrainingPrograms, items)
}

func extendItems(extras *[]Item, builtins func() []Item, items []Item) int {
	extMu.Lock()
	defer extMu.Unlock()
	existing := map[string]bool{}
	for _, item := range builtins() {
		existing[item.ID] = true
	}
	for _, item := range *extras {
		existing[item.ID] = true
	}
	added := 0
	for _, item := range items {
		if existing[item.ID] {
			continue
		}
		existing[item.ID] = true
		*extras = append(*extras, item)
		added++
	}
	return added
}

func mergedControls() []Control {
	extMu.RLock()
	defer extMu.RUnlock()
	if len(extraControls) == 0 {
		return annexA
	}
	merged := make([]Control, 0, len(annexA)+len(extraControls))
	merged = append(merged, annexA...)
	merged = append(merged, extraControls...)
	return merged
}

func withExtras(builtins func() []Item, extras *[]Item) []Item {
	extMu.RLock()
	defer extMu.RUnlock()
	base := builtins()
	if len(*extras) == 0 {
		return base
	}
	merged := make([]Item, 0, len(base)+len(*extras))
	merged = append(merged, base...)
	merged = append(merged, *extras...)
	return merged
}

func controlByIDLocked(id string) (Control, bool) {
	for _, c := range annexA {
		if c.ID == id {
			return c, true
		}
	}
	for _, c := range extraControls {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}
