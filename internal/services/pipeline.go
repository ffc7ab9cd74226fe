package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	redisclient "github.com/yungbote/learnpath-backend/internal/clients/redis"
	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
)

const retrieveCacheTTL = 5 * time.Minute

// PipelineService is the façade over the three pipeline stages: goal text
// goes in, ranked items feed plan generation, and an acted-on plan feeds
// credential issuance. Handlers only talk to this service.
type PipelineService interface {
	Retrieve(ctx context.Context, goal string, topK int) ([]types.ScoredItem, error)
	GeneratePlan(ctx context.Context, goal string, items []types.ScoredItem) (*types.Plan, error)
	IssueCredential(actorID, goal string, path []types.PlanStep) types.IssuedCredential
	VerifyCredential(cred types.Credential, signature string) (bool, string)
	Run(ctx context.Context, actorID, goal string, topK int) (*PipelineResult, error)
}

// PipelineResult is the output of running all three stages in one request.
type PipelineResult struct {
	Items      []types.ScoredItem     `json:"items"`
	Plan       *types.Plan            `json:"plan"`
	Credential types.IssuedCredential `json:"credential"`
}

type pipelineService struct {
	log         *logger.Logger
	ranker      RankerService
	planner     PlannerService
	credentials CredentialService
	cache       redisclient.ResultCache // nil when caching is disabled
}

func NewPipelineService(log *logger.Logger, ranker RankerService, planner PlannerService, credentials CredentialService, cache redisclient.ResultCache) PipelineService {
	return &pipelineService{
		log:         log.With("service", "PipelineService"),
		ranker:      ranker,
		planner:     planner,
		credentials: credentials,
		cache:       cache,
	}
}

func (p *pipelineService) Retrieve(ctx context.Context, goal string, topK int) ([]types.ScoredItem, error) {
	// Normalize before keying so an omitted topK and an explicit default hit
	// the same cache entry.
	if topK <= 0 {
		topK = p.ranker.DefaultTopK()
	}
	key := retrieveCacheKey(goal, topK)
	if p.cache != nil {
		if items, ok := p.cache.GetScoredItems(ctx, key); ok {
			p.log.Debug("Retrieve served from cache", "key", key)
			return items, nil
		}
	}
	items, err := p.ranker.Rank(ctx, goal, topK)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.SetScoredItems(ctx, key, items, retrieveCacheTTL)
	}
	return items, nil
}

func (p *pipelineService) GeneratePlan(ctx context.Context, goal string, items []types.ScoredItem) (*types.Plan, error) {
	return p.planner.GeneratePlan(ctx, goal, items)
}

func (p *pipelineService) IssueCredential(actorID, goal string, path []types.PlanStep) types.IssuedCredential {
	return p.credentials.Issue(actorID, goal, path)
}

func (p *pipelineService) VerifyCredential(cred types.Credential, signature string) (bool, string) {
	return p.credentials.Verify(cred, signature)
}

// Run chains retrieval, planning and issuance for one actor and goal.
func (p *pipelineService) Run(ctx context.Context, actorID, goal string, topK int) (*PipelineResult, error) {
	items, err := p.Retrieve(ctx, goal, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	plan, err := p.GeneratePlan(ctx, goal, items)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	issued := p.IssueCredential(actorID, goal, plan.Path)
	return &PipelineResult{
		Items:      items,
		Plan:       plan,
		Credential: issued,
	}, nil
}

func retrieveCacheKey(goal string, topK int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", goal, topK)))
	return "retrieve:" + hex.EncodeToString(sum[:])
}
