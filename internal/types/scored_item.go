package types

// ScoredItem is a catalog item scored against one goal. It is built fresh per
// request and never persisted. The same shape comes out of both the vector
// ranking path and the keyword fallback, so downstream consumers do not care
// which one ran.
type ScoredItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Type        ItemType `json:"type"`
	Description string   `json:"description"`
	Date        string   `json:"date,omitempty"`
	// Similarity is cosine similarity in [-1,1] on the vector path, or the
	// goal-word overlap ratio in [0,1] on the keyword path.
	Similarity   float64 `json:"similarity"`
	RecencyScore float64 `json:"recency_score"`
	// Score = Similarity + alpha*RecencyScore.
	Score float64 `json:"score"`
}

// ScoredFromItem copies the presentation fields of a catalog item into a
// ScoredItem, leaving the scores to the ranker.
func ScoredFromItem(item CatalogItem) ScoredItem {
	return ScoredItem{
		ID:          item.ID,
		Title:       item.Title,
		URL:         item.URL,
		Type:        item.Type,
		Description: item.Description,
		Date:        item.Date,
	}
}
