package commands

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/cache"
	"github.com/fortuna/acbscout/internal/config"
	"github.com/fortuna/acbscout/internal/fetch"
	"github.com/fortuna/acbscout/internal/ingest/acb"
	"github.com/fortuna/acbscout/internal/ingest/eurobasket"
	"github.com/fortuna/acbscout/internal/ingest/sportsdb"
	"github.com/fortuna/acbscout/internal/logging"
	"github.com/fortuna/acbscout/internal/pipeline"
	"github.com/fortuna/acbscout/internal/publisher"
	"github.com/fortuna/acbscout/internal/snapshot"
	"github.com/fortuna/acbscout/internal/store"
	"github.com/fortuna/acbscout/internal/store/repository"
)

// app holds what every subcommand shares. Optional backends that fail to
// connect are logged and left nil.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *snapshot.Store
	redis  *cache.RedisCache
	db     *store.Database

	pages     fetch.Fetcher
	boxScores fetch.Fetcher

	closers []func()
}

// newApp loads configuration. Its errors are the only ones that reach the
// exit status.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	logger := logging.New(level, cfg.LogFormat)

	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  snapshot.New(cfg.OutputDir),
	}
	a.onClose(func() { _ = logger.Sync() })

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", cfg.OutputDir)
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, continuing without cache and events", zap.Error(err))
		} else {
			a.redis = rc
			a.onClose(func() { _ = rc.Close() })
		}
	}
	return a, nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// pageFetcher returns the configured HTML fetcher, HTTP or headless
// browser. It is created once per process.
func (a *app) pageFetcher() fetch.Fetcher {
	if a.pages != nil {
		return a.pages
	}
	opts := fetch.Options{
		MaxAttempts: a.cfg.FetchMaxAttempts,
		Timeout:     a.cfg.FetchTimeout,
		Delay:       a.cfg.FetchDelay,
		UserAgent:   a.cfg.UserAgent,
	}
	if a.cfg.FetchMode == config.FetchModeBrowser {
		b := fetch.NewBrowserFetcher(opts, a.logger)
		a.onClose(b.Close)
		a.pages = b
	} else {
		a.pages = fetch.NewHTTPFetcher(opts, a.logger)
	}
	return a.pages
}

// apiFetcher is always plain HTTP; JSON endpoints need no rendering.
func (a *app) apiFetcher() fetch.Fetcher {
	return fetch.NewHTTPFetcher(fetch.Options{
		MaxAttempts: a.cfg.FetchMaxAttempts,
		Timeout:     a.cfg.FetchTimeout,
		Delay:       a.cfg.FetchAPIDelay,
		UserAgent:   a.cfg.UserAgent,
	}, a.logger)
}

// boxScoreFetcher is pageFetcher backed by the Redis page cache when Redis
// is available. Finished games never change, so their pages are safe to
// keep.
func (a *app) boxScoreFetcher() fetch.Fetcher {
	if a.boxScores != nil {
		return a.boxScores
	}
	a.boxScores = a.pageFetcher()
	if a.redis != nil {
		a.boxScores = fetch.NewCachedFetcher(a.boxScores, a.redis, a.cfg.BoxScoreCacheTTL, a.logger)
	}
	return a.boxScores
}

func (a *app) leagueClient() *sportsdb.Client {
	cfg := a.cfg
	return sportsdb.NewClient(a.apiFetcher(), sportsdb.Options{
		BaseURL:        cfg.SportsDBBaseURL,
		LeagueID:       cfg.SportsDBLeagueID,
		LeagueName:     cfg.SportsDBLeagueName,
		Season:         cfg.Season,
		FallbackSeason: cfg.FallbackSeason,
	}, a.logger)
}

func (a *app) eurobasketClient() *eurobasket.Client {
	cfg := a.cfg
	return eurobasket.NewClient(a.boxScoreFetcher(), eurobasket.Options{
		BaseURL:  cfg.EurobasketBaseURL,
		Season:   cfg.Season,
		MaxGames: cfg.EurobasketMaxGames,
		Teams:    eurobasket.NewTeamResolver(nil, cfg.TeamMatchThreshold),
	}, a.logger)
}

func (a *app) acbClient() *acb.Client {
	return acb.NewClient(a.pageFetcher(), a.boxScoreFetcher(), acb.Options{
		BaseURL:  a.cfg.ACBBaseURL,
		SeasonID: a.cfg.ACBSeasonID,
	}, a.logger)
}

// acbOptions are the configured acb.com run options with every known team.
func (a *app) acbOptions() pipeline.ACBOptions {
	opts := pipeline.ACBOptions{
		Season:      a.cfg.SeasonLabel,
		League:      a.cfg.League,
		MaxJornadas: a.cfg.ACBMaxJornadas,
		MaxMatches:  a.cfg.ACBMaxMatches,
	}
	for id := range acb.DefaultTeams {
		opts.TeamIDs = append(opts.TeamIDs, id)
	}
	return opts
}

// runner builds a pipeline.Runner with the Redis publisher and the
// Postgres archive when they are configured.
func (a *app) runner(ctx context.Context) *pipeline.Runner {
	deps := pipeline.Deps{
		Store:  a.store,
		Report: os.Stdout,
		Logger: a.logger,
	}
	if a.redis != nil {
		deps.Publisher = publisher.NewRedisStreamPublisher(a.redis.Client())
	}
	if db := a.database(ctx); db != nil {
		deps.Archive = repository.NewRunRepository(db)
	}
	return pipeline.New(deps)
}

// database connects to Postgres and applies migrations on first use.
func (a *app) database(ctx context.Context) *store.Database {
	if a.db != nil || a.cfg.DatabaseURL == "" {
		return a.db
	}
	db, err := store.NewDatabase(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		a.logger.Warn("database unavailable, join runs will not be archived", zap.Error(err))
		return nil
	}
	if err := db.RunMigrations(ctx); err != nil {
		a.logger.Warn("database migrations failed, join runs will not be archived", zap.Error(err))
		_ = db.Close()
		return nil
	}
	a.db = db
	a.onClose(func() { _ = db.Close() })
	return db
}
