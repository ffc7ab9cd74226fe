package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/learnpath-backend/internal/logger"
	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
	"github.com/yungbote/learnpath-backend/internal/types"
)

const (
	// generativeMaxItems caps how many ranked items get sent to the model.
	generativeMaxItems = 10

	defaultReadMinutes     = 15
	defaultWatchMinutes    = 20
	defaultPracticeMinutes = 30
)

const plannerSystemPrompt = `You are a learning-path planner. Given a learning goal and a list of candidate content items, respond with ONLY a JSON object of the form
{"goal": string, "path": [{"kind": "Read"|"Watch"|"Practice", "title": string, "url": string, "summary": string, "minutes": number}], "rationale": string}
Use only the provided items, keep the path to at most 3 steps, and keep total minutes under 90.`

// PlannerService produces a learning plan from a goal and ranked items. Three
// strategies run in strict order — remote generative call, curated lookup,
// heuristic composer — and the first one that succeeds wins. A tier failure
// never retries the same tier.
type PlannerService interface {
	GeneratePlan(ctx context.Context, goal string, items []types.ScoredItem) (*types.Plan, error)
}

type plannerService struct {
	log     *logger.Logger
	ai      OpenAIClient // nil when generation credentials are absent
	curated *CuratedTable
	timeout time.Duration
}

func NewPlannerService(log *logger.Logger, ai OpenAIClient, curated *CuratedTable, timeout time.Duration) PlannerService {
	if curated == nil {
		curated = DefaultCuratedTable()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &plannerService{
		log:     log.With("service", "PlannerService"),
		ai:      ai,
		curated: curated,
		timeout: timeout,
	}
}

type tierFunc func(ctx context.Context, goal string, items []types.ScoredItem) (*types.Plan, error)

func (p *plannerService) GeneratePlan(ctx context.Context, goal string, items []types.ScoredItem) (*types.Plan, error) {
	tiers := []struct {
		name string
		fn   tierFunc
	}{
		{"generative", p.generativeTier},
		{"curated", p.curatedTier},
		{"heuristic", p.heuristicTier},
	}
	var lastErr error
	for _, tier := range tiers {
		plan, err := tier.fn(ctx, goal, items)
		if err == nil {
			return plan, nil
		}
		lastErr = err
		if errors.Is(err, pkgerrors.ErrTierUnavailable) {
			p.log.Debug("Plan tier unavailable", "tier", tier.name, "error", err)
		} else {
			p.log.Warn("Plan tier failed", "tier", tier.name, "error", err)
		}
	}
	// The heuristic tier always succeeds, so this is unreachable in practice.
	return nil, fmt.Errorf("all plan tiers failed: %w", lastErr)
}

// ---- Tier 1: generative ----

type generatedStep struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Minutes int    `json:"minutes"`
}

type generatedPlan struct {
	Goal      string          `json:"goal"`
	Path      []generatedStep `json:"path"`
	Rationale string          `json:"rationale"`
}

func (p *plannerService) generativeTier(ctx context.Context, goal string, items []types.ScoredItem) (*types.Plan, error) {
	if p.ai == nil {
		return nil, fmt.Errorf("generative model not configured: %w", pkgerrors.ErrTierUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	capped := items
	if len(capped) > generativeMaxItems {
		capped = capped[:generativeMaxItems]
	}
	type promptItem struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	promptItems := make([]promptItem, 0, len(capped))
	for _, it := range capped {
		promptItems = append(promptItems, promptItem{
			Title:       it.Title,
			URL:         it.URL,
			Type:        string(it.Type),
			Description: it.Description,
		})
	}
	itemsJSON, err := json.Marshal(promptItems)
	if err != nil {
		return nil, err
	}
	user := fmt.Sprintf("Goal: %s\n\nCandidate items:\n%s", goal, itemsJSON)

	raw, err := p.ai.GenerateText(ctx, plannerSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("generative call failed: %w", err)
	}
	gen, err := parsePlanJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("generative response unusable: %w", err)
	}

	steps := make([]types.PlanStep, 0, len(gen.Path))
	for _, s := range gen.Path {
		minutes := s.Minutes
		if minutes <= 0 {
			minutes = defaultReadMinutes
		}
		steps = append(steps, types.PlanStep{
			Kind:    normalizeStepKind(s.Kind),
			Title:   s.Title,
			URL:     s.URL,
			Summary: s.Summary,
			Minutes: minutes,
		})
	}
	planGoal := gen.Goal
	if strings.TrimSpace(planGoal) == "" {
		planGoal = goal
	}
	return &types.Plan{
		Goal:       planGoal,
		Path:       steps,
		Rationale:  gen.Rationale,
		OriginFlag: false,
	}, nil
}

// parsePlanJSON extracts the first well-formed JSON object from model output
// that may be wrapped in prose or code fences.
func parsePlanJSON(s string) (*generatedPlan, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty response")
	}
	if obj, ok := firstJSONObject(s); ok {
		s = obj
	}
	var out generatedPlan
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if len(out.Path) == 0 {
		return nil, errors.New("missing path")
	}
	if strings.TrimSpace(out.Rationale) == "" {
		return nil, errors.New("missing rationale")
	}
	return &out, nil
}

// firstJSONObject scans forward from the first "{" for its balanced closing
// brace, skipping braces inside JSON strings, so prose after the object
// (which may itself contain braces) does not break extraction.
func firstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func normalizeStepKind(kind string) types.StepKind {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "watch", "video":
		return types.StepKindWatch
	case "practice", "do", "exercise":
		return types.StepKindPractice
	default:
		return types.StepKindRead
	}
}

// ---- Tier 2: curated ----

func (p *plannerService) curatedTier(_ context.Context, goal string, _ []types.ScoredItem) (*types.Plan, error) {
	plan, ok := p.curated.Lookup(goal)
	if !ok {
		return nil, fmt.Errorf("no curated plan for goal: %w", pkgerrors.ErrTierUnavailable)
	}
	return plan, nil
}

// ---- Tier 3: heuristic ----

// heuristicTier never fails: with ranked items it composes up to one Read,
// one Watch and one Practice step from the first item of each type; with no
// items it returns an empty plan.
func (p *plannerService) heuristicTier(_ context.Context, goal string, items []types.ScoredItem) (*types.Plan, error) {
	plan := &types.Plan{
		Goal:       goal,
		Path:       []types.PlanStep{},
		Rationale:  "Composed from the top-ranked catalog items for this goal.",
		OriginFlag: true,
	}
	if len(items) == 0 {
		plan.Rationale = "No catalog items matched this goal."
		return plan, nil
	}

	if it, ok := firstOfType(items, types.ItemTypeArticle); ok {
		plan.Path = append(plan.Path, heuristicStep(types.StepKindRead, it, defaultReadMinutes))
	}
	if it, ok := firstOfType(items, types.ItemTypeVideo); ok {
		plan.Path = append(plan.Path, heuristicStep(types.StepKindWatch, it, defaultWatchMinutes))
	}
	if it, ok := firstOfType(items, types.ItemTypePractice); ok {
		plan.Path = append(plan.Path, heuristicStep(types.StepKindPractice, it, defaultPracticeMinutes))
	}
	if len(plan.Path) == 0 {
		plan.Path = append(plan.Path, heuristicStep(types.StepKindRead, items[0], defaultReadMinutes))
	}
	return plan, nil
}

func firstOfType(items []types.ScoredItem, t types.ItemType) (types.ScoredItem, bool) {
	for _, it := range items {
		if it.Type == t {
			return it, true
		}
	}
	return types.ScoredItem{}, false
}

func heuristicStep(kind types.StepKind, item types.ScoredItem, minutes int) types.PlanStep {
	return types.PlanStep{
		Kind:    kind,
		Title:   item.Title,
		URL:     item.URL,
		Summary: oneLine(item.Description, item.Title),
		Minutes: minutes,
	}
}

func oneLine(description, title string) string {
	s := strings.TrimSpace(strings.SplitN(description, "\n", 2)[0])
	if s == "" {
		return "Work through " + title + "."
	}
	// Truncate on rune boundaries so multibyte text stays valid UTF-8.
	if runes := []rune(s); len(runes) > 140 {
		s = string(runes[:137]) + "..."
	}
	return s
}
