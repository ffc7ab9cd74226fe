package types

type ItemType string

const (
	ItemTypeArticle  ItemType = "article"
	ItemTypeVideo    ItemType = "video"
	ItemTypePractice ItemType = "practice"
	ItemTypeOther    ItemType = "other"
)

// NormalizeItemType maps arbitrary catalog input onto the known item types.
func NormalizeItemType(s string) ItemType {
	switch ItemType(s) {
	case ItemTypeArticle, ItemTypeVideo, ItemTypePractice:
		return ItemType(s)
	default:
		return ItemTypeOther
	}
}

// CatalogItem is one entry of the read-only content catalog. Items are loaded
// once at startup and never mutated afterwards, so concurrent reads need no
// locking.
type CatalogItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Type        ItemType  `json:"type"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"`
	Date        string    `json:"date,omitempty"` // ISO date (YYYY-MM-DD)
	Tags        []string  `json:"tags,omitempty"`
	Embedding   []float64 `json:"embedding,omitempty"`
}
