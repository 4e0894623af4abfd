package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"nanobanana-tryon/internal/domain/entities"
	domainrepos "nanobanana-tryon/internal/domain/repositories"
)

const (
	DefaultArtifactTTL      = 30 * time.Minute
	DefaultArtifactMaxBytes = 256 << 20
)

// CacheArtifactRepository keeps encoded results in memory until their TTL
// expires or the byte budget forces eviction.
type CacheArtifactRepository struct {
	cache    *ristretto.Cache[string, *entities.Artifact]
	ttl      time.Duration
	maxBytes int64
}

func NewCacheArtifactRepository(maxBytes int64, ttl time.Duration) (*CacheArtifactRepository, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultArtifactMaxBytes
	}
	if ttl <= 0 {
		ttl = DefaultArtifactTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *entities.Artifact]{
		// 1件あたり数百KB想定で、件数の数倍のカウンタを確保する
		NumCounters:        max(maxBytes/(64<<10), 1000),
		MaxCost:            maxBytes,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact cache: %w", err)
	}

	return &CacheArtifactRepository{
		cache:    cache,
		ttl:      ttl,
		maxBytes: maxBytes,
	}, nil
}

var _ domainrepos.ArtifactRepository = (*CacheArtifactRepository)(nil)

func (r *CacheArtifactRepository) Save(ctx context.Context, artifact *entities.Artifact) error {
	if artifact == nil || artifact.Size() == 0 {
		return fmt.Errorf("artifact is empty")
	}

	cost := int64(artifact.Size())
	if cost > r.maxBytes {
		return fmt.Errorf("artifact %s is larger than the cache (%d > %d bytes)", artifact.ID(), cost, r.maxBytes)
	}

	key := string(artifact.ID())
	if !r.cache.SetWithTTL(key, artifact, cost, r.ttl) {
		return fmt.Errorf("artifact %s dropped by cache", artifact.ID())
	}
	// Setは非同期なので、直後のダウンロードで見つかるように待つ
	r.cache.Wait()

	// 満杯のときはadmissionで弾かれることがある
	if _, ok := r.cache.Get(key); !ok {
		return fmt.Errorf("artifact %s rejected by cache (%d bytes)", artifact.ID(), cost)
	}

	return nil
}

func (r *CacheArtifactRepository) FindByID(ctx context.Context, id entities.ArtifactID) (*entities.Artifact, error) {
	artifact, ok := r.cache.Get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainrepos.ErrArtifactNotFound, id)
	}
	return artifact, nil
}

func (r *CacheArtifactRepository) TTL() time.Duration {
	return r.ttl
}

func (r *CacheArtifactRepository) Close() {
	r.cache.Close()
}
