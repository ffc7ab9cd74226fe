// Package catalog supplies the read-only content catalog the pipeline ranks
// against. The snapshot is loaded once at startup; the pipeline never writes
// to it, so concurrent requests share it without locking.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
)

// Provider hands out catalog items. The ranker depends on this capability
// rather than on where the items come from, so tests inject fixtures and
// production loads a file snapshot through the same seam.
type Provider interface {
	Items() []types.CatalogItem
}

// Snapshot is an immutable in-memory catalog loaded from a JSON file.
type Snapshot struct {
	items []types.CatalogItem
}

func NewSnapshot(items []types.CatalogItem) *Snapshot {
	return &Snapshot{items: items}
}

// LoadSnapshot reads a JSON array of catalog items. A corrupt file is fatal
// to startup; there is nothing sensible to serve without a catalog.
func LoadSnapshot(path string, log *logger.Logger) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var items []types.CatalogItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i := range items {
		items[i].Type = types.NormalizeItemType(string(items[i].Type))
	}
	if log != nil {
		log.Info("Catalog snapshot loaded", "path", path, "items", len(items))
	}
	return &Snapshot{items: items}, nil
}

func (s *Snapshot) Items() []types.CatalogItem {
	return s.items
}
