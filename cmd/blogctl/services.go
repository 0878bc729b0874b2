package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/wanda-blog/internal/server"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/factory"
)

type services struct {
	store    storage.ContentStore
	articles *service.ArticleService
	tags     *service.TagService
	indexed  bool
}

func (s *services) Close() {
	s.store.Close()
}

// openServices wires the services the same way the API does, search mirror included.
func openServices(ctx context.Context) (*services, error) {
	storeCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}
	locales, err := server.LoadLocales()
	if err != nil {
		return nil, err
	}

	store, err := factory.NewContentStore(ctx, storeCfg)
	if err != nil {
		return nil, err
	}
	if storeCfg.Type == storage.InMem {
		slog.Warn("STORAGE_TYPE is in_mem, changes are lost when blogctl exits")
	}

	var opts []service.Option
	indexer, err := factory.NewSearchIndexer(ctx, storeCfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to connect search mirror: %w", err)
	}
	if indexer != nil {
		opts = append(opts, service.WithSearchIndex(indexer))
	}

	return &services{
		store:    store,
		articles: service.NewArticleService(store, locales, opts...),
		tags:     service.NewTagService(store, locales, opts...),
		indexed:  indexer != nil,
	}, nil
}
