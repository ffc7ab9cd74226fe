package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/learnpath-backend/internal/types"
)

// CuratedEntry maps one goal key to a hand-written plan.
type CuratedEntry struct {
	Goal      string           `yaml:"goal"`
	Rationale string           `yaml:"rationale"`
	Path      []CuratedStepDef `yaml:"path"`
}

type CuratedStepDef struct {
	Kind    string `yaml:"kind"`
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Summary string `yaml:"summary"`
	Minutes int    `yaml:"minutes"`
}

// CuratedTable is an ordered goal→plan lookup. Entry order matters: the
// first matching entry wins, so broader keys belong later in the file.
type CuratedTable struct {
	entries []CuratedEntry
}

func NewCuratedTable(entries []CuratedEntry) *CuratedTable {
	return &CuratedTable{entries: entries}
}

// LoadCuratedTable reads the YAML goal→plan table.
func LoadCuratedTable(path string) (*CuratedTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curated table %s: %w", path, err)
	}
	var entries []CuratedEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse curated table %s: %w", path, err)
	}
	return &CuratedTable{entries: entries}, nil
}

// DefaultCuratedTable is the built-in table used when no file is configured.
func DefaultCuratedTable() *CuratedTable {
	return &CuratedTable{entries: []CuratedEntry{
		{
			Goal:      "learn go programming",
			Rationale: "A proven on-ramp for Go: read the tour, watch an overview, then write code.",
			Path: []CuratedStepDef{
				{Kind: "Read", Title: "A Tour of Go", URL: "https://go.dev/tour/", Summary: "Work through the interactive language tour.", Minutes: 30},
				{Kind: "Watch", Title: "Go in 100 Seconds, then in depth", URL: "https://www.youtube.com/watch?v=446E-r0rXHI", Summary: "A fast orientation before going deeper.", Minutes: 15},
				{Kind: "Practice", Title: "Go by Example exercises", URL: "https://gobyexample.com/", Summary: "Re-type and modify the examples that map to your tour chapters.", Minutes: 40},
			},
		},
		{
			Goal:      "introduction to machine learning",
			Rationale: "Start with intuition, see it visually, then train one model end to end.",
			Path: []CuratedStepDef{
				{Kind: "Read", Title: "ML crash course: framing", URL: "https://developers.google.com/machine-learning/crash-course", Summary: "Core vocabulary and the supervised learning loop.", Minutes: 25},
				{Kind: "Watch", Title: "But what is a neural network?", URL: "https://www.youtube.com/watch?v=aircAruvnKk", Summary: "Visual intuition for gradient-based learning.", Minutes: 20},
				{Kind: "Practice", Title: "Train your first classifier", URL: "https://scikit-learn.org/stable/tutorial/basic/tutorial.html", Summary: "Fit and evaluate a model on a toy dataset.", Minutes: 35},
			},
		},
		{
			Goal:      "frontend web development fundamentals",
			Rationale: "HTML/CSS first, then the browser's programming model.",
			Path: []CuratedStepDef{
				{Kind: "Read", Title: "MDN: structuring the web", URL: "https://developer.mozilla.org/en-US/docs/Learn", Summary: "HTML and CSS building blocks.", Minutes: 30},
				{Kind: "Watch", Title: "How browsers render pages", URL: "https://www.youtube.com/watch?v=SmE4OwHztCc", Summary: "What happens between markup and pixels.", Minutes: 20},
				{Kind: "Practice", Title: "Build a small page from scratch", URL: "https://developer.mozilla.org/en-US/docs/Learn/Getting_started_with_the_web", Summary: "No frameworks, just a page that validates.", Minutes: 40},
			},
		},
	}}
}

// Lookup finds the first entry matching the goal using, in order: exact
// match, case-insensitive substring in either direction, and a token-overlap
// heuristic (at least 2 goal words longer than 3 chars appearing in the key).
func (t *CuratedTable) Lookup(goal string) (*types.Plan, bool) {
	if t == nil || len(t.entries) == 0 {
		return nil, false
	}
	for _, e := range t.entries {
		if e.Goal == goal {
			return e.toPlan(goal), true
		}
	}
	lowered := strings.ToLower(strings.TrimSpace(goal))
	if lowered != "" {
		for _, e := range t.entries {
			key := strings.ToLower(e.Goal)
			if strings.Contains(lowered, key) || strings.Contains(key, lowered) {
				return e.toPlan(goal), true
			}
		}
	}
	var tokens []string
	for _, w := range strings.Fields(lowered) {
		w = strings.Trim(w, ".,!?:;\"'()")
		if len(w) > 3 {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) >= 2 {
		for _, e := range t.entries {
			key := strings.ToLower(e.Goal)
			hits := 0
			for _, w := range tokens {
				if strings.Contains(key, w) {
					hits++
				}
			}
			if hits >= 2 {
				return e.toPlan(goal), true
			}
		}
	}
	return nil, false
}

func (e CuratedEntry) toPlan(goal string) *types.Plan {
	steps := make([]types.PlanStep, 0, len(e.Path))
	for _, s := range e.Path {
		steps = append(steps, types.PlanStep{
			Kind:    types.StepKind(s.Kind),
			Title:   s.Title,
			URL:     s.URL,
			Summary: s.Summary,
			Minutes: s.Minutes,
		})
	}
	return &types.Plan{
		Goal:       goal,
		Path:       steps,
		Rationale:  e.Rationale,
		OriginFlag: true,
	}
}
