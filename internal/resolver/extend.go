package resolver

import "sync"

// Rule scopes. Each derivable selection consults its own scope so extension
// rules land in the right module.
const (
	RuleScopeObjectives = "objectives"
	RuleScopeProcedures = "procedures"
	RuleScopeTraining   = "training-programs"
)

var (
	ruleMu     sync.RWMutex
	extraRules = map[string][]Rule{}
)

// ExtendRules registers extension mapping rules under a scope. Applied once
// at startup when workspace extensions are loaded.
func ExtendRules(scope string, rules []Rule) {
	if len(rules) == 0 {
		return
	}
	ruleMu.Lock()
	defer ruleMu.Unlock()
	extraRules[scope] = append(extraRules[scope], rules...)
}

// ExtraRules returns the extension rules registered under a scope.
func ExtraRules(scope string) []Rule {
	ruleMu.RLock()
	defer ruleMu.RUnlock()
	rules := extraRules[scope]
	if len(rules) == 0 {
		return nil
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
