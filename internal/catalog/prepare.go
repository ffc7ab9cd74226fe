package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/learnpath-backend/internal/embedding"
	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
)

const (
	prepareBatchSize  = 16
	prepareMaxWorkers = 4
	// Pause between batches so a remote embedding backend's rate limit is
	// respected.
	prepareBatchDelay = 200 * time.Millisecond
)

// PrepareEmbeddings fills in missing item embeddings, batching the work with
// bounded concurrency. Results are written by original index so output order
// always matches input order regardless of completion order. Items that fail
// to embed keep a nil embedding and fall through to the ranker's keyword
// path; only context cancellation aborts the whole preparation.
func PrepareEmbeddings(ctx context.Context, log *logger.Logger, embedder embedding.Embedder, items []types.CatalogItem) ([]types.CatalogItem, error) {
	log = log.With("service", "CatalogPrepare")
	out := make([]types.CatalogItem, len(items))
	copy(out, items)

	for start := 0; start < len(out); start += prepareBatchSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(prepareBatchDelay):
			}
		}
		end := start + prepareBatchSize
		if end > len(out) {
			end = len(out)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(prepareMaxWorkers)
		for i := start; i < end; i++ {
			if len(out[i].Embedding) > 0 {
				continue
			}
			i := i
			g.Go(func() error {
				text := out[i].Title + "\n" + out[i].Description
				vec, err := embedder.Embed(gctx, text)
				if err != nil {
					log.Warn("Embedding failed for catalog item", "item_id", out[i].ID, "error", err)
					return nil
				}
				out[i].Embedding = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
