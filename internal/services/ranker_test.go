package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/yungbote/learnpath-backend/internal/catalog"
	"github.com/yungbote/learnpath-backend/internal/embedding"
	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

var fixedNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return fixedNow }

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("embedding backend down")
}

func isoDaysAgo(days int) string {
	return fixedNow.AddDate(0, 0, -days).Format("2006-01-02")
}

func TestScoreRecency(t *testing.T) {
	r := NewRankerService(testLogger(t), catalog.NewSnapshot(nil), embedding.NewDeterministic(), RankerOptions{Now: testClock}).(*rankerService)

	cases := []struct {
		name string
		date string
		want float64
		tol  float64
	}{
		{name: "today", date: isoDaysAgo(0), want: 1.0, tol: 0.05},
		{name: "half_life", date: isoDaysAgo(14), want: 0.5, tol: 0.03},
		{name: "two_half_lives", date: isoDaysAgo(28), want: 0.25, tol: 0.02},
		{name: "missing", date: "", want: 0, tol: 0},
		{name: "garbage", date: "not-a-date", want: 0, tol: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.scoreRecency(tc.date, fixedNow)
			if math.Abs(got-tc.want) > tc.tol {
				t.Fatalf("scoreRecency(%q)=%v, want %v±%v", tc.date, got, tc.want, tc.tol)
			}
		})
	}
}

func rankerFixtureCatalog(t *testing.T) *catalog.Snapshot {
	t.Helper()
	det := embedding.NewDeterministic()
	embed := func(text string) []float64 {
		v, err := det.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("embed fixture: %v", err)
		}
		return v
	}
	return catalog.NewSnapshot([]types.CatalogItem{
		{
			ID: "a1", Title: "LLM safety overview", URL: "https://example.com/a1",
			Type: types.ItemTypeArticle, Description: "An overview of llm safety basics and alignment.",
			Date:      isoDaysAgo(2),
			Embedding: embed("Understand LLM safety basics"),
		},
		{
			ID: "v1", Title: "Watching models fail", URL: "https://example.com/v1",
			Type: types.ItemTypeVideo, Description: "Video on llm safety failures in practice.",
			Date:      isoDaysAgo(5),
			Embedding: embed("llm failure modes on video"),
		},
		{
			ID: "p1", Title: "Red-teaming exercise", URL: "https://example.com/p1",
			Type: types.ItemTypePractice, Description: "Hands-on safety red-teaming practice lab.",
			Date:      isoDaysAgo(10),
			Embedding: embed("hands-on red teaming practice"),
		},
		{
			ID: "o1", Title: "Unrelated gardening notes", URL: "https://example.com/o1",
			Type: types.ItemTypeOther, Description: "Growing tomatoes at home.",
			Date:      isoDaysAgo(1),
			Embedding: embed("tomato gardening at home"),
		},
	})
}

func TestRankSortedAndCapped(t *testing.T) {
	r := NewRankerService(testLogger(t), rankerFixtureCatalog(t), embedding.NewDeterministic(), RankerOptions{Now: testClock})

	items, err := r.Rank(context.Background(), "Understand LLM safety basics", 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want topK=3", len(items))
	}
	// Item a1 carries the embedding of the goal text itself, so it must rank
	// first with similarity 1.
	if items[0].ID != "a1" {
		t.Fatalf("top item = %s, want a1", items[0].ID)
	}
	if math.Abs(items[0].Similarity-1.0) > 1e-3 {
		t.Fatalf("top similarity = %v, want ~1", items[0].Similarity)
	}
	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Fatalf("not sorted descending at %d: %v > %v", i, items[i].Score, items[i-1].Score)
		}
	}
}

func TestRankStableTieBreak(t *testing.T) {
	// Two items with identical embeddings and dates must keep catalog order.
	det := embedding.NewDeterministic()
	vec, _ := det.Embed(context.Background(), "same text")
	snap := catalog.NewSnapshot([]types.CatalogItem{
		{ID: "first", Title: "first", Date: isoDaysAgo(3), Embedding: vec},
		{ID: "second", Title: "second", Date: isoDaysAgo(3), Embedding: vec},
	})
	r := NewRankerService(testLogger(t), snap, det, RankerOptions{Now: testClock})

	items, err := r.Rank(context.Background(), "same text", 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if items[0].ID != "first" || items[1].ID != "second" {
		t.Fatalf("tie broke catalog order: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestRankBlankGoalFallsBackToKeywords(t *testing.T) {
	r := NewRankerService(testLogger(t), rankerFixtureCatalog(t), embedding.NewDeterministic(), RankerOptions{Now: testClock})

	items, err := r.Rank(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("len = %d, want whole catalog", len(items))
	}
	// No qualifying goal words: similarity 0 everywhere, recency decides.
	for _, it := range items {
		if it.Similarity != 0 {
			t.Fatalf("similarity = %v for blank goal, want 0", it.Similarity)
		}
	}
}

func TestRankEmbedderFailureFallsBackToKeywords(t *testing.T) {
	r := NewRankerService(testLogger(t), rankerFixtureCatalog(t), failingEmbedder{}, RankerOptions{Now: testClock})

	items, err := r.Rank(context.Background(), "llm safety practice", 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	// The gardening item shares no goal words; anything ranked above it must
	// have positive word overlap.
	if items[0].Similarity <= 0 {
		t.Fatalf("top keyword similarity = %v, want > 0", items[0].Similarity)
	}
}

func TestKeywordOverlap(t *testing.T) {
	item := types.CatalogItem{
		Title:       "LLM safety overview",
		Description: "Alignment and evaluation basics",
		Tags:        []string{"safety", "llm"},
	}
	cases := []struct {
		name string
		goal string
		want float64
	}{
		{name: "full_overlap", goal: "llm safety", want: 1.0},
		{name: "partial", goal: "llm safety quantum", want: 2.0 / 3.0},
		{name: "short_words_ignored", goal: "an of to", want: 0},
		{name: "no_overlap", goal: "baking bread", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := keywordOverlap(goalWords(tc.goal), item)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("keywordOverlap(%q)=%v, want %v", tc.goal, got, tc.want)
			}
		})
	}
}

func TestScoresRoundedToFourDecimals(t *testing.T) {
	r := NewRankerService(testLogger(t), rankerFixtureCatalog(t), embedding.NewDeterministic(), RankerOptions{Now: testClock})
	items, err := r.Rank(context.Background(), "Understand LLM safety basics", 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for _, it := range items {
		for _, v := range []float64{it.Similarity, it.RecencyScore, it.Score} {
			if math.Abs(v*1e4-math.Round(v*1e4)) > 1e-9 {
				t.Fatalf("value %v not rounded to 4 decimals", v)
			}
		}
	}
}
