package extensions

import (
	"fmt"
)

// Discover loads every YAML and Go definition under dir and merges them into
// one bundle. Problems with individual files are returned alongside the
// usable definitions so a bad extension never blocks the rest; callers log
// them and move on.
func Discover(dir string) (Bundle, []DefinitionFile, []error) {
	var bundle Bundle
	var files []DefinitionFile
	var problems []error

	yamlDefs, err := LoadDefinitionDir(dir)
	if err != nil {
		problems = append(problems, err)
	}
	goDefs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		problems = append(problems, err)
	}

	seen := map[string]string{}
	for _, file := range append(yamlDefs, goDefs...) {
		def := file.Definition
		if existing, dup := seen[def.ID]; dup {
			problems = append(problems, fmt.Errorf("extension: duplicate id %s (%s and %s)", def.ID, existing, file.Path))
			continue
		}
		seen[def.ID] = file.Path
		bundle.Merge(def)
		files = append(files, file)
	}
	return bundle, files, problems
}
