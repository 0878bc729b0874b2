package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/es"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/pg"
)

// NewContentStore opens the configured primary store.
func NewContentStore(ctx context.Context, cfg *StorageConfig) (storage.ContentStore, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStore(pool), nil

	case storage.InMem:
		return in_mem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStore), cfg.Type)
	}
}

// NewSearchIndexer connects the search mirror, returning nil when none is configured.
func NewSearchIndexer(ctx context.Context, cfg *StorageConfig) (*es.Indexer, error) {
	if cfg.Es == nil {
		return nil, nil
	}
	indexer, err := es.NewIndexer(ctx, *cfg.Es)
	if err != nil {
		return nil, fmt.Errorf("failed to create search indexer: %w", err)
	}
	return indexer, nil
}
