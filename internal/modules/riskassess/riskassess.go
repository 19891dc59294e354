// Package riskassess implements the risk assessment module: the asset,
// threat, and vulnerability registers plus the risk links joining them. It
// also owns the qualitative scoring scale and the five-level banding function
// every downstream recomputation must agree with.
package riskassess

import (
	"strings"

	"github.com/google/uuid"

	"github.com/kingrea/ismsforge/internal/module"
	"github.com/kingrea/ismsforge/internal/store"
	"github.com/kingrea/ismsforge/internal/workspace"
)

// ID is the module identifier used in the registry and the logbook.
const ID = "risk-assessment"

// Qualitative likelihood/impact levels, each mapped to a 1-5 score.
const (
	LevelVeryLow  = "very-low"
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelVeryHigh = "very-high"
)

var levelScores = map[string]int{
	LevelVeryLow:  1,
	LevelLow:      2,
	LevelMedium:   3,
	LevelHigh:     4,
	LevelVeryHigh: 5,
}

// LevelScore maps a qualitative level to its numeric score. Unknown levels
// score as medium so a typo in hand-edited state never zeroes a risk.
func LevelScore(level string) int {
	if score, ok := levelScores[strings.ToLower(strings.TrimSpace(level))]; ok {
		return score
	}
	return levelScores[LevelMedium]
}

// Score computes likelihood x impact; always in [1,25].
func Score(likelihood, impact string) int {
	return LevelScore(likelihood) * LevelScore(impact)
}

// Band maps a numeric risk score to its five-level band. The thresholds are
// fixed: <3 Very Low, <6 Low, <10 Medium, <15 High, otherwise Very High.
func Band(score float64) string {
	switch {
	case score < 3:
		return "Very Low"
	case score < 6:
		return "Low"
	case score < 10:
		return "Medium"
	case score < 15:
		return "High"
	default:
		return "Very High"
	}
}

// Asset is an information asset in the register.
type Asset struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner,omitempty"`
}

// Threat is a threat register entry.
type Threat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vulnerability is a vulnerability register entry.
type Vulnerability struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Risk links one asset, threat, and vulnerability by foreign key and carries
// the assessed qualitative levels. RiskScore is derived, never entered.
type Risk struct {
	ID              string `json:"id"`
	AssetID         string `json:"assetId"`
	ThreatID        string `json:"threatId"`
	VulnerabilityID string `json:"vulnerabilityId"`
	Likelihood      string `json:"likelihood"`
	Impact          string `json:"impact"`
}

// Score computes the risk's numeric score from its qualitative levels.
func (r Risk) Score() int {
	return Score(r.Likelihood, r.Impact)
}

// Data is the risk assessment module's persisted payload.
type Data struct {
	Assets          []Asset         `json:"assets"`
	Threats         []Threat        `json:"threats"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Risks           []Risk          `json:"risks"`
}

// Defaults seeds the register with two worked sample risks so a new workspace
// demonstrates the join shape end to end.
func Defaults() Data {
	return Data{
		Assets: []Asset{
			{ID: "AST-001", Name: "Customer Database", Owner: "IT Operations"},
			{ID: "AST-002", Name: "Source Code Repository", Owner: "Engineering"},
		},
		Threats: []Threat{
			{ID: "THR-001", Name: "Ransomware"},
			{ID: "THR-002", Name: "Credential Theft"},
		},
		Vulnerabilities: []Vulnerability{
			{ID: "VUL-001", Name: "Unpatched operating systems"},
			{ID: "VUL-002", Name: "Weak authentication"},
		},
		Risks: []Risk{
			{ID: "RSK-001", AssetID: "AST-001", ThreatID: "THR-001", VulnerabilityID: "VUL-001", Likelihood: LevelHigh, Impact: LevelVeryHigh},
			{ID: "RSK-002", AssetID: "AST-002", ThreatID: "THR-002", VulnerabilityID: "VUL-002", Likelihood: LevelMedium, Impact: LevelHigh},
		},
	}
}

// Store opens the risk assessment module's backing store.
func Store(ctx *module.Context) *store.Store[Data] {
	return store.New(workspace.KeyRiskAssessment, ctx.Workspace.KeyPath(workspace.KeyRiskAssessment), Defaults,
		store.WithClock[Data](ctx.Clock),
		store.WithLogger[Data](ctx.Logger),
		store.WithSaveHook[Data](func(key string) { ctx.Announce(ID, key) }),
	)
}

// AddRisk links an asset, threat, and vulnerability and returns the new
// record. Ids are random, not positional, so deletions never cause reuse.
func (d *Data) AddRisk(assetID, threatID, vulnerabilityID, likelihood, impact string) Risk {
	risk := Risk{
		ID:              "RSK-" + uuid.NewString()[:8],
		AssetID:         assetID,
		ThreatID:        threatID,
		VulnerabilityID: vulnerabilityID,
		Likelihood:      likelihood,
		Impact:          impact,
	}
	d.Risks = append(d.Risks, risk)
	return risk
}

// DeleteRisk removes a risk by id.
func (d *Data) DeleteRisk(id string) bool {
	for i, risk := range d.Risks {
		if risk.ID == id {
			d.Risks = append(d.Risks[:i], d.Risks[i+1:]...)
			return true
		}
	}
	return false
}

// AssetByID resolves a foreign key; ok=false when the referenced asset is
// gone, so callers can fall back to a display placeholder.
func (d Data) AssetByID(id string) (Asset, bool) {
	for _, a := range d.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// ThreatByID resolves a threat foreign key.
func (d Data) ThreatByID(id string) (Threat, bool) {
	for _, t := range d.Threats {
		if t.ID == id {
			return t, true
		}
	}
	return Threat{}, false
}

// VulnerabilityByID resolves a vulnerability foreign key.
func (d Data) VulnerabilityByID(id string) (Vulnerability, bool) {
	for _, v := range d.Vulnerabilities {
		if v.ID == id {
			return v, true
		}
	}
	return Vulnerability{}, false
}

// RiskByID resolves a risk by id.
func (d Data) RiskByID(id string) (Risk, bool) {
	for _, r := range d.Risks {
		if r.ID == id {
			return r, true
		}
	}
	return Risk{}, false
}
