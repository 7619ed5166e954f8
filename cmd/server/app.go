package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/extract"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/gemini"
	"github.com/phrazzld/scry-study/internal/platform/pdf"
	"github.com/phrazzld/scry-study/internal/platform/redis"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/service/preview"
	"github.com/phrazzld/scry-study/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	clock  domain.Clock

	// Stores
	cardStore     store.CardStore
	srsStore      store.SRSStore
	reviewStore   store.ReviewStore
	statsStore    store.StatsStore
	noteStore     store.NoteStore
	documentStore store.DocumentStore
	settingsStore store.SettingsStore

	// Services
	srsService        srs.Service
	cardService       service.CardService
	cardReviewService card_review.CardReviewService
	statsService      service.StatsService
	contentService    service.ContentService
	settingsService   service.SettingsService
	previewService    *preview.Service

	// closers run in reverse order during cleanup
	closers []func()
}

// newApplication wires stores and services on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, d *database) (*application, error) {
	loc, err := cfg.Study.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid study timezone %q: %w", cfg.Study.Timezone, err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     d.db,
		clock:  domain.NewClock(loc),
	}

	app.cardStore = sqlstore.NewCardStore(d.db, d.dialect, logger)
	app.srsStore = sqlstore.NewSRSStore(d.db, d.dialect, logger)
	app.reviewStore = sqlstore.NewReviewStore(d.db, d.dialect, logger)
	app.statsStore = sqlstore.NewStatsStore(d.db, d.dialect, logger)
	app.noteStore = sqlstore.NewNoteStore(d.db, d.dialect, logger)
	app.documentStore = sqlstore.NewDocumentStore(d.db, d.dialect, logger)
	app.settingsStore = sqlstore.NewSettingsStore(d.db, d.dialect, logger)

	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		Box2IntervalDays: cfg.Study.Box2IntervalDays,
		Box3IntervalDays: cfg.Study.Box3IntervalDays,
		Box4IntervalDays: cfg.Study.Box4IntervalDays,
		Box5IntervalDays: cfg.Study.Box5IntervalDays,
	}))

	app.cardService = service.NewCardService(d.db, app.cardStore, app.srsStore, app.clock, logger)
	app.cardReviewService = card_review.NewCardReviewService(
		d.db,
		card_review.Stores{
			Cards:   app.cardStore,
			SRS:     app.srsStore,
			Reviews: app.reviewStore,
			Stats:   app.statsStore,
		},
		app.srsService,
		service.NewDistractorSelector(app.cardStore, logger),
		app.clock,
		logger,
	)
	app.statsService = service.NewStatsService(app.statsStore, app.clock, logger)
	app.contentService = service.NewContentService(app.noteStore, app.documentStore, pdf.Extractor{}, logger)
	app.settingsService = service.NewSettingsService(app.settingsStore, logger)

	if err := app.settingsService.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed default settings: %w", err)
	}

	extractor, err := app.newExtractor(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	cache, err := app.newPreviewCache(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.previewService = preview.NewService(preview.Deps{
		Notes:     app.noteStore,
		Documents: app.documentStore,
		Keys:      service.NewDedupIndex(app.cardStore),
		Cards:     app.cardService,
		Extractor: extractor,
		Cache:     cache,
		Clock:     app.clock,
	}, preview.Options{MaxItems: cfg.Preview.MaxItems}, logger)

	logger.Info("application initialized",
		slog.String("database", d.dialect.Name()),
		slog.String("timezone", loc.String()),
		slog.String("extractor", cfg.Extractor.Mode),
		slog.String("preview_backend", cfg.Preview.Backend))
	return app, nil
}

// newExtractor builds the pair extractor named by the config. The gemini
// extractor falls back to the heuristic one when the model is unavailable.
func (app *application) newExtractor(ctx context.Context) (generation.Extractor, error) {
	heuristic := extract.Heuristic{}

	switch app.config.Extractor.Mode {
	case "gemini":
		llm, err := gemini.NewExtractor(ctx, app.logger, app.config.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini extractor: %w", err)
		}
		return generation.WithFallback(llm, heuristic, app.logger), nil
	default:
		return heuristic, nil
	}
}

// newPreviewCache builds the batch cache named by the config.
func (app *application) newPreviewCache(ctx context.Context) (preview.Cache, error) {
	ttl := app.config.Preview.TTL()

	switch app.config.Preview.Backend {
	case "redis":
		cache, err := redis.Open(ctx, app.config.Preview.RedisURL, ttl, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open preview cache: %w", err)
		}
		app.closers = append(app.closers, func() {
			if err := cache.Close(); err != nil {
				app.logger.Error("error closing preview cache", slog.String("error", err.Error()))
			}
		})
		return cache, nil
	default:
		return preview.NewMemoryCache(ttl, app.clock.Now), nil
	}
}

// cleanup releases resources acquired by newApplication. The database is
// owned by the caller.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}
