package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCuratedLookup(t *testing.T) {
	table := NewCuratedTable([]CuratedEntry{
		{Goal: "learn go programming", Rationale: "go ramp", Path: []CuratedStepDef{{Kind: "Read", Title: "A Tour of Go", Minutes: 30}}},
		{Goal: "introduction to machine learning", Rationale: "ml ramp", Path: []CuratedStepDef{{Kind: "Watch", Title: "NN intro", Minutes: 20}}},
	})

	cases := []struct {
		name      string
		goal      string
		wantFound bool
		wantTitle string
	}{
		{
			name:      "exact_match",
			goal:      "learn go programming",
			wantFound: true,
			wantTitle: "A Tour of Go",
		},
		{
			name:      "goal_contains_key",
			goal:      "I want to Learn Go Programming this month",
			wantFound: true,
			wantTitle: "A Tour of Go",
		},
		{
			name:      "key_contains_goal",
			goal:      "machine learning",
			wantFound: true,
			wantTitle: "NN intro",
		},
		{
			name:      "token_overlap",
			goal:      "a gentle introduction to deep machine things",
			wantFound: true,
			wantTitle: "NN intro",
		},
		{
			name:      "single_token_not_enough",
			goal:      "programming quantum computers",
			wantFound: false,
		},
		{
			name:      "no_match",
			goal:      "underwater basket weaving",
			wantFound: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, ok := table.Lookup(tc.goal)
			if ok != tc.wantFound {
				t.Fatalf("Lookup(%q) found=%v, want %v", tc.goal, ok, tc.wantFound)
			}
			if !ok {
				return
			}
			if !plan.OriginFlag {
				t.Fatal("curated plan must carry the non-generative origin flag")
			}
			if plan.Goal != tc.goal {
				t.Fatalf("plan goal = %q, want requested goal %q", plan.Goal, tc.goal)
			}
			if len(plan.Path) == 0 || plan.Path[0].Title != tc.wantTitle {
				t.Fatalf("plan path = %+v, want first title %q", plan.Path, tc.wantTitle)
			}
		})
	}
}

func TestCuratedFirstEntryWins(t *testing.T) {
	table := NewCuratedTable([]CuratedEntry{
		{Goal: "learn go basics", Rationale: "specific", Path: []CuratedStepDef{{Kind: "Read", Title: "specific"}}},
		{Goal: "learn go", Rationale: "broad", Path: []CuratedStepDef{{Kind: "Read", Title: "broad"}}},
	})
	plan, ok := table.Lookup("please help me learn go basics quickly")
	if !ok {
		t.Fatal("expected a match")
	}
	if plan.Path[0].Title != "specific" {
		t.Fatalf("got %q, want the earlier entry to win", plan.Path[0].Title)
	}
}

func TestLoadCuratedTable(t *testing.T) {
	yamlDoc := `
- goal: "learn rust"
  rationale: "ownership first"
  path:
    - kind: Read
      title: "The Rust Book"
      url: "https://doc.rust-lang.org/book/"
      summary: "Chapters 1-4."
      minutes: 45
`
	path := filepath.Join(t.TempDir(), "curated.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	table, err := LoadCuratedTable(path)
	if err != nil {
		t.Fatalf("LoadCuratedTable: %v", err)
	}
	plan, ok := table.Lookup("learn rust")
	if !ok {
		t.Fatal("expected loaded entry to match")
	}
	if plan.Path[0].Minutes != 45 {
		t.Fatalf("minutes = %d, want 45", plan.Path[0].Minutes)
	}
}
