package riskassess

import (
	"fmt"
	"testing"
)

func TestScoreUsesFixedLevelMapping(t *testing.T) {
	cases := []struct {
		likelihood, impact string
		want               int
	}{
		{LevelVeryLow, LevelVeryLow, 1},
		{LevelLow, LevelMedium, 6},
		{LevelHigh, LevelVeryHigh, 20},
		{LevelVeryHigh, LevelVeryHigh, 25},
		{"nonsense", LevelVeryLow, 3}, // unknown level scores as medium
	}
	for _, tc := range cases {
		if got := Score(tc.likelihood, tc.impact); got != tc.want {
			t.Fatalf("Score(%s, %s) = %d, want %d", tc.likelihood, tc.impact, got, tc.want)
		}
	}
}

func TestBandCoversAllScores(t *testing.T) {
	// Every integer score 1-25 must land in the documented band.
	bandFor := func(score int) string {
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
	for score := 1; score <= 25; score++ {
		t.Run(fmt.Sprintf("score-%d", score), func(t *testing.T) {
			if got, want := Band(float64(score)), bandFor(score); got != want {
				t.Fatalf("Band(%d) = %s, want %s", score, got, want)
			}
		})
	}
}

func TestDefaultsSeedTwoSampleRisks(t *testing.T) {
	data := Defaults()
	if len(data.Risks) != 2 {
		t.Fatalf("defaults seed %d risks, want 2", len(data.Risks))
	}
	for _, risk := range data.Risks {
		if _, ok := data.AssetByID(risk.AssetID); !ok {
			t.Fatalf("sample risk %s references missing asset %s", risk.ID, risk.AssetID)
		}
		if _, ok := data.ThreatByID(risk.ThreatID); !ok {
			t.Fatalf("sample risk %s references missing threat %s", risk.ID, risk.ThreatID)
		}
		if _, ok := data.VulnerabilityByID(risk.VulnerabilityID); !ok {
			t.Fatalf("sample risk %s references missing vulnerability %s", risk.ID, risk.VulnerabilityID)
		}
	}
}

func TestAddAndDeleteRiskNeverReusesIds(t *testing.T) {
	data := Defaults()
	first := data.AddRisk("AST-001", "THR-002", "VUL-002", LevelLow, LevelHigh)
	if !data.DeleteRisk(first.ID) {
		t.Fatalf("delete of %s failed", first.ID)
	}
	second := data.AddRisk("AST-001", "THR-002", "VUL-002", LevelLow, LevelHigh)
	if first.ID == second.ID {
		t.Fatalf("risk id %s reused after deletion", first.ID)
	}
}
