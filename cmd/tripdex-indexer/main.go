// tripdex-indexer builds the aspect indices offline and publishes the
// artifact the API server reads. Useful for baking an index into a
// container image or rebuilding without touching a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/roamkit/tripdex/internal/config"
	dbRedis "github.com/roamkit/tripdex/internal/db/redis"
	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/index"
	logpkg "github.com/roamkit/tripdex/internal/logger"
	"github.com/roamkit/tripdex/internal/metrics"
	"github.com/roamkit/tripdex/internal/repository/catalog"
	"github.com/roamkit/tripdex/internal/repository/embcache"
	openaiEmb "github.com/roamkit/tripdex/internal/transport/openai"
	builduc "github.com/roamkit/tripdex/internal/usecase/build"
	"github.com/roamkit/tripdex/internal/version"
)

func main() {
	var (
		catalogDir = flag.String("catalog", "", "catalog directory (default: from config)")
		outPath    = flag.String("out", "", "artifact output path (default: from config)")
		timeout    = flag.Duration("timeout", 10*time.Minute, "overall build timeout")
	)
	flag.Parse()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *catalogDir != "" {
		cfg.Catalog.Dir = *catalogDir
	}
	if *outPath != "" {
		cfg.Index.ArtifactPath = *outPath
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Building index",
		zap.String("version", version.Version),
		zap.String("catalog_dir", cfg.Catalog.Dir),
		zap.String("artifact", cfg.Index.ArtifactPath),
		zap.String("model", cfg.Embedding.Vectorizer.Model),
	)

	metrics.RegisterMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	embedder := newEmbedder(ctx, cfg, logger)

	svc := builduc.New(
		catalog.New(cfg.Catalog.Dir),
		embedder,
		index.NewStore(cfg.Index.ArtifactPath),
		cfg.Embedding.Vectorizer.Model,
	)

	snap, err := svc.Build(ctx)
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}

	fmt.Printf("published %s: %d destinations, %d dims, model %s\n",
		cfg.Index.ArtifactPath, snap.Len(), snap.Dimensions(), snap.Model())
}

// newEmbedder assembles the same chain the server uses so offline and
// in-process builds produce identical vectors.
func newEmbedder(ctx context.Context, cfg config.Config, logger *zap.Logger) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.Provider.APIKey,
		BaseURL:    cfg.Embedding.Provider.BaseURL,
		Model:      cfg.Embedding.Vectorizer.Model,
		Dimensions: cfg.Embedding.Vectorizer.Dimensions,
		Provider:   cfg.Embedding.Provider.Name,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if len(cfg.Cache.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
			logger.Fatal("Embedding cache not ready", zap.Error(err))
		}
		embedder = embcache.New(base, store, cfg.Embedding.Vectorizer.Model,
			metrics.EmbeddingCacheTotal, logger)
	}

	if instr := cfg.Embedding.Vectorizer.DocumentInstruction; instr != "" {
		return domain.NewInstructionEmbedder(embedder, instr)
	}
	return embedder
}
