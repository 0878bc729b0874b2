// Package main Wanda Blog API
// @title Wanda Blog API
// @version 1.0
// @description Multilingual blog content API: articles, tags, localized slugs and publication workflow
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@wanda.exchange
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer API token with editor or admin scope
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/wanda-blog/docs"
	"github.com/DjordjeVuckovic/wanda-blog/internal/auth"
	"github.com/DjordjeVuckovic/wanda-blog/internal/query"
	"github.com/DjordjeVuckovic/wanda-blog/internal/router"
	"github.com/DjordjeVuckovic/wanda-blog/internal/seed"
	"github.com/DjordjeVuckovic/wanda-blog/internal/server"
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/wanda-blog/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	storeCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := factory.NewContentStore(startupCtx, storeCfg)
	if err != nil {
		cancel()
		slog.Error("Failed to create content store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	indexer, err := factory.NewSearchIndexer(startupCtx, storeCfg)
	cancel()
	if err != nil {
		slog.Error("Failed to create search indexer", "error", err)
		os.Exit(1)
	}

	healthChecker := pkgserver.NewPingHealthChecker("content store", store, 2*time.Second)

	s := server.New(cfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Wanda Blog API is running")
	})

	opts := []service.Option{service.WithMetrics(s.Metrics())}
	if indexer != nil {
		opts = append(opts, service.WithSearchIndex(indexer))
		slog.Info("Search mirror enabled", "addresses", storeCfg.Es.Addresses, "index", storeCfg.Es.IndexName)
	} else {
		slog.Info("Search mirror disabled")
	}

	articles := service.NewArticleService(store, cfg.Locales, opts...)
	tags := service.NewTagService(store, cfg.Locales, opts...)

	if path := os.Getenv("SEED_FILE"); path != "" && storeCfg.Type == storage.InMem {
		if err := seedInMemory(s.Context(), path, tags, articles); err != nil {
			slog.Error("Failed to seed in-memory store", "error", err)
			os.Exit(1)
		}
	}

	queries := query.NewBuilder(query.BuilderConfig{
		Locales:      cfg.Locales,
		MaxLimit:     cfg.PageMaxSize,
		DefaultLimit: cfg.PageDefaultSize,
	})
	guard := auth.NewGuard(cfg.Tokens)

	api := s.API()
	router.NewArticleRouter(api, articles, queries, guard).Bind()
	router.NewTagRouter(api, tags, queries, guard).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	slog.Info("Starting server", "port", cfg.Port, "prefix", cfg.APIPrefix, "storage", storeCfg.Type, "locales", cfg.Locales.Supported())
	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func seedInMemory(ctx context.Context, path string, tags *service.TagService, articles *service.ArticleService) error {
	file, err := seed.Load(path)
	if err != nil {
		return err
	}
	res, err := seed.NewSeeder(tags, articles).Seed(ctx, file, seed.Options{})
	if err != nil {
		return err
	}
	slog.Info("Seeded in-memory store", "tags", res.TagsCreated, "articles", res.ArticlesCreated)
	return nil
}
