package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/learnpath-backend/internal/catalog"
	"github.com/yungbote/learnpath-backend/internal/embedding"
	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
	"github.com/yungbote/learnpath-backend/internal/vectormath"
)

const (
	// DefaultHalfLifeDays controls the recency decay: an item this many days
	// old scores 0.5.
	DefaultHalfLifeDays = 14.0
	// DefaultAlpha blends recency into the similarity score.
	DefaultAlpha = 0.15
	// DefaultTopK caps how many scored items a retrieval returns.
	DefaultTopK = 10
)

// RankerService scores the catalog against a free-text goal. The vector path
// runs first; any embedding failure (including a blank goal) degrades to the
// keyword path, which needs no vectors and produces the same output shape.
type RankerService interface {
	Rank(ctx context.Context, goal string, topK int) ([]types.ScoredItem, error)
	// DefaultTopK is the cap applied when a request passes topK <= 0.
	DefaultTopK() int
}

type rankerService struct {
	log      *logger.Logger
	provider catalog.Provider
	embedder embedding.Embedder
	now      func() time.Time

	halfLifeDays float64
	alpha        float64
	topK         int
}

// RankerOptions tune scoring. Zero values select the defaults. Now is the
// clock used for recency decay; tests inject a fixed time so ranking is
// reproducible.
type RankerOptions struct {
	HalfLifeDays float64
	Alpha        float64
	TopK         int
	Now          func() time.Time
}

func NewRankerService(log *logger.Logger, provider catalog.Provider, embedder embedding.Embedder, opts RankerOptions) RankerService {
	if opts.HalfLifeDays <= 0 {
		opts.HalfLifeDays = DefaultHalfLifeDays
	}
	if opts.Alpha == 0 {
		opts.Alpha = DefaultAlpha
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &rankerService{
		log:          log.With("service", "RankerService"),
		provider:     provider,
		embedder:     embedder,
		now:          opts.Now,
		halfLifeDays: opts.HalfLifeDays,
		alpha:        opts.Alpha,
		topK:         opts.TopK,
	}
}

func (r *rankerService) DefaultTopK() int {
	return r.topK
}

func (r *rankerService) Rank(ctx context.Context, goal string, topK int) ([]types.ScoredItem, error) {
	if topK <= 0 {
		topK = r.topK
	}
	goalVec, err := r.embedder.Embed(ctx, goal)
	if err != nil {
		r.log.Debug("Goal embedding unavailable, using keyword fallback", "error", err)
		return r.keywordFallback(goal, topK), nil
	}
	return r.rankByVector(goalVec, topK), nil
}

func (r *rankerService) rankByVector(goalVec []float64, topK int) []types.ScoredItem {
	now := r.now()
	items := r.provider.Items()
	scored := make([]types.ScoredItem, 0, len(items))
	for _, item := range items {
		s := types.ScoredFromItem(item)
		s.Similarity = round4(vectormath.CosineSimilarity(goalVec, item.Embedding))
		s.RecencyScore = round4(r.scoreRecency(item.Date, now))
		s.Score = round4(s.Similarity + r.alpha*s.RecencyScore)
		scored = append(scored, s)
	}
	return sortAndTruncate(scored, topK)
}

func (r *rankerService) keywordFallback(goal string, topK int) []types.ScoredItem {
	now := r.now()
	words := goalWords(goal)
	items := r.provider.Items()
	scored := make([]types.ScoredItem, 0, len(items))
	for _, item := range items {
		s := types.ScoredFromItem(item)
		s.Similarity = round4(keywordOverlap(words, item))
		s.RecencyScore = round4(r.scoreRecency(item.Date, now))
		s.Score = round4(s.Similarity + r.alpha*s.RecencyScore)
		scored = append(scored, s)
	}
	return sortAndTruncate(scored, topK)
}

// sortAndTruncate stable-sorts descending by score so ties keep catalog
// order, then caps at topK.
func sortAndTruncate(scored []types.ScoredItem, topK int) []types.ScoredItem {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// scoreRecency is exp(-ln2 * daysElapsed / halfLife). Missing or unparsable
// dates score 0 so undated items rank purely on similarity.
func (r *rankerService) scoreRecency(isoDate string, now time.Time) float64 {
	if isoDate == "" {
		return 0
	}
	published, err := parseISODate(isoDate)
	if err != nil {
		return 0
	}
	days := now.Sub(published).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp(-math.Ln2 * days / r.halfLifeDays)
}

func parseISODate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// goalWords lowercases the goal and keeps words longer than 2 characters.
func goalWords(goal string) []string {
	fields := strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	var words []string
	for _, w := range fields {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

func keywordOverlap(words []string, item types.CatalogItem) float64 {
	if len(words) == 0 {
		return 0
	}
	haystack := strings.ToLower(item.Title + " " + item.Description + " " + strings.Join(item.Tags, " "))
	matches := 0
	for _, w := range words {
		if strings.Contains(haystack, w) {
			matches++
		}
	}
	return float64(matches) / float64(len(words))
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
