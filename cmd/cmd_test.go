package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spigell/staffmatch/internal/ranking"
	"github.com/spigell/staffmatch/internal/scoring"
)

func km(v float64) *float64 { return &v }

func sampleResult() *ranking.Result {
	return &ranking.Result{
		RequestID: "req-1",
		Mode:      ranking.ModeAI,
		Profile:   scoring.PresetVacancy,
		Eligible:  2,
		AIApplied: true,
		Candidates: []ranking.RankedCandidate{
			{ID: "c1", Name: "Anna Amrein", Position: "Elektroinstallateur EFZ", Location: "8050 Zürich", DistanceKm: km(10), Score: 96, AIScore: km(88), MatchReason: "passt"},
			{ID: "c2", Name: "Beat Brunner", Position: "Elektriker", Score: 40},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, "table", sampleResult()); err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"req-1", "Anna Amrein", "10.0", "96.0", "88", "passt", "REASON"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.Contains(lines[len(lines)-1], "Beat Brunner") || !strings.Contains(lines[len(lines)-1], " - ") {
		t.Fatalf("expected unknown distance and ai score as dashes: %q", lines[len(lines)-1])
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := render(&buf, "json", sampleResult()); err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded struct {
		Candidates []map[string]any `json:"candidates"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(decoded.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(decoded.Candidates))
	}
	second := decoded.Candidates[1]
	if v, ok := second["distance_km"]; !ok || v != nil {
		t.Fatalf("expected explicit null distance, got %v", second["distance_km"])
	}
	if _, ok := second["ai_score"]; ok {
		t.Fatalf("expected no ai_score for unassessed candidate")
	}

	if err := render(&buf, "xml", sampleResult()); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCustomProfilesAndListing(t *testing.T) {
	custom, err := customProfiles(map[string]map[string]any{
		"night-shift": {
			"base":           "vacancy",
			"role-match-max": "50",
			"hard-filter":    false,
		},
	})
	if err != nil {
		t.Fatalf("custom profiles: %v", err)
	}

	p := custom["night-shift"]
	if p.RoleMatchMax != 50 || p.HardFilterOnRoleMatch {
		t.Fatalf("unexpected profile: %+v", p)
	}

	var buf bytes.Buffer
	if err := printProfiles(&buf, custom); err != nil {
		t.Fatalf("print profiles: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"company", "peers", "vacancy", "night-shift"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in listing:\n%s", name, out)
		}
	}

	if _, err := customProfiles(map[string]map[string]any{"bad": {"unknown-key": 1}}); err == nil {
		t.Fatalf("expected error for unknown keys")
	}
}
