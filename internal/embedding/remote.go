package embedding

import (
	"context"
	"fmt"

	"github.com/yungbote/learnpath-backend/internal/logger"
)

// RemoteClient is the slice of the OpenAI client the embedder needs.
type RemoteClient interface {
	Embed(ctx context.Context, inputs []string) ([][]float64, error)
}

// Remote embeds through a remote model and falls back to the deterministic
// embedder on any failure (timeout, quota, network, empty result). The
// fallback is mandatory: ranking must keep working with no remote configured.
type Remote struct {
	log      *logger.Logger
	client   RemoteClient
	fallback Embedder
}

func NewRemote(log *logger.Logger, client RemoteClient, fallback Embedder) *Remote {
	return &Remote{
		log:      log.With("service", "RemoteEmbedder"),
		client:   client,
		fallback: fallback,
	}
}

func (r *Remote) Embed(ctx context.Context, text string) ([]float64, error) {
	if r.client == nil {
		return r.fallback.Embed(ctx, text)
	}
	vecs, err := r.client.Embed(ctx, []string{text})
	if err == nil && len(vecs) == 1 && len(vecs[0]) > 0 {
		return vecs[0], nil
	}
	if err == nil {
		err = fmt.Errorf("remote embedder returned %d vectors for 1 input", len(vecs))
	}
	r.log.Warn("Remote embedding failed, using deterministic fallback", "error", err)
	return r.fallback.Embed(ctx, text)
}
