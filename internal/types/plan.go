package types

type StepKind string

const (
	StepKindRead     StepKind = "Read"
	StepKindWatch    StepKind = "Watch"
	StepKindPractice StepKind = "Practice"
)

// PlanStep is one step of a learning plan, referencing a catalog item.
type PlanStep struct {
	Kind    StepKind `json:"kind"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Summary string   `json:"summary"`
	Minutes int      `json:"minutes"`
}

// Plan is a short ordered learning plan for one goal. Immutable once built.
type Plan struct {
	Goal      string     `json:"goal"`
	Path      []PlanStep `json:"path"`
	Rationale string     `json:"rationale"`
	// OriginFlag is true when the plan did NOT come from the generative tier
	// (curated lookup or heuristic composer).
	OriginFlag bool `json:"origin_flag"`
}

// TotalMinutes sums the estimated minutes across all steps.
func (p *Plan) TotalMinutes() int {
	total := 0
	for _, s := range p.Path {
		total += s.Minutes
	}
	return total
}
