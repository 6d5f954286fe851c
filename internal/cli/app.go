package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/viper"

	"github.com/vigia-io/vigia/internal/dedupe"
	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/observability"
	"github.com/vigia-io/vigia/internal/pipeline"
	"github.com/vigia-io/vigia/internal/store"
)

// loadConfig merges defaults, the config file and VIGIA_* environment
// variables into a Config.
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration: %w", err)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Detector.APIKey == "" {
		cfg.Detector.APIKey = key
	}
	return cfg, nil
}

// app bundles the wired components every subcommand needs.
type app struct {
	cfg     model.Config
	store   *store.Store
	gaz     *gazetteer.Holder
	pipe    *pipeline.Pipeline
	metrics *observability.Metrics
}

// newApp opens the store, loads the territory catalog and wires the
// pipeline. Callers must Close it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	catalog, err := gazetteer.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
	}
	idx, err := gazetteer.Build(1, catalog)
	if err != nil {
		return nil, fmt.Errorf("build gazetteer: %w", err)
	}
	gaz := gazetteer.NewHolder(idx)

	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}

	metrics := observability.NewMetrics()
	metrics.GazetteerSize.Set(float64(idx.Size()))

	pipe := pipeline.New(cfg, st, gaz, metrics, clockwork.NewRealClock(), verbose)
	warm := cfg.Dedupe.WindowSize
	if warm <= 0 {
		warm = dedupe.DefaultWindowSize
	}
	if err := pipe.WarmDedupe(ctx, warm); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: dedupe warm-up failed: %v\n", err)
	}

	return &app{cfg: cfg, store: st, gaz: gaz, pipe: pipe, metrics: metrics}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: close store: %v\n", err)
	}
}
