package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/conversation"
	"github.com/at-ishikawa/sonnik/internal/database"
	"github.com/at-ishikawa/sonnik/internal/interpretation"
	"github.com/at-ishikawa/sonnik/internal/interpretation/htmlsource"
	"github.com/at-ishikawa/sonnik/internal/keyword"
	"github.com/at-ishikawa/sonnik/internal/report"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}
	return db, nil
}

// pipeline holds every component between an inbound message and its reply.
type pipeline struct {
	db         *sqlx.DB
	repo       *interpretation.DBRepository
	resolver   *interpretation.Resolver
	builder    *report.Builder
	dispatcher *conversation.Dispatcher
}

func newPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	analyzer, err := keyword.NewSnowballAnalyzer(
		cfg.Analyzer.Language,
		keyword.WithLemmaDictionary(cfg.Analyzer.LemmaDictionary),
	)
	if err != nil {
		return nil, fmt.Errorf("keyword.NewSnowballAnalyzer() > %w", err)
	}
	extractor := keyword.NewExtractor(
		analyzer,
		keyword.SupplementaryStopWords(cfg.Analyzer.Language, cfg.Analyzer.ExtraStopWords...),
	)

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	repo := interpretation.NewDBRepository(db)
	resolver := interpretation.NewResolver(repo, htmlsource.NewClient(cfg.Source))
	builder := report.NewBuilder(extractor, resolver, cfg.Report)
	slog.Default().Debug("Pipeline ready",
		"language", cfg.Analyzer.Language,
		"database", cfg.Database.Driver,
		"source", cfg.Source.BaseURL,
	)

	return &pipeline{
		db:         db,
		repo:       repo,
		resolver:   resolver,
		builder:    builder,
		dispatcher: conversation.NewDispatcher(builder, resolver, repo, cfg.Conversation),
	}, nil
}

func (p *pipeline) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("db.Close() > %w", err)
	}
	return nil
}
