package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/redzone/external/espn"
	"github.com/riskibarqy/redzone/internal/config"
	"github.com/riskibarqy/redzone/internal/domain/archive"
	"github.com/riskibarqy/redzone/internal/domain/scoreboard"
	"github.com/riskibarqy/redzone/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/redzone/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/redzone/internal/interfaces/httpapi"
	"github.com/riskibarqy/redzone/internal/platform/logging"
	"github.com/riskibarqy/redzone/internal/platform/resilience"
	"github.com/riskibarqy/redzone/internal/usecase"
)

// App holds the wired service: the HTTP server plus the background refresh
// loop feeding it.
type App struct {
	Server    *http.Server
	Refresher *usecase.RefreshService
	Store     *scoreboard.Store

	archiveDB *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, slogger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if slogger == nil {
		slogger = slog.Default()
	}

	leagueClient := espn.NewClient(espn.ClientConfig{
		BaseURL:  cfg.ESPNBaseURL,
		LeagueID: cfg.ESPNLeagueID,
		Season:   cfg.ESPNSeason,
		// Re-resolved per fetch so the July season rollover does not
		// require a restart.
		SeasonFn:   func() int { return usecase.SeasonYear(time.Now()) },
		ESPNS2:     cfg.ESPNS2,
		SWID:       cfg.ESPNSWID,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})
	boardClient := espn.NewScoreboardClient(nil, cfg.ESPNScoreboardURL, logger)

	var (
		archiveRepo archive.Repository
		archiveDB   *sqlx.DB
	)
	if cfg.ArchiveEnabled {
		db, err := openArchiveDB(ctx, cfg.ArchiveDBURL)
		if err != nil {
			return nil, err
		}
		archiveDB = db
		archiveRepo = postgres.NewArchiveRepository(db)
		logger.Info("archive enabled", "db", dbNameFromURL(cfg.ArchiveDBURL))
	} else {
		archiveRepo = memory.NewArchiveRepository()
	}

	store := scoreboard.NewStore()
	refresher := usecase.NewRefreshService(
		leagueClient,
		boardClient,
		usecase.NewSnapshotBuilder(logger),
		store,
		archiveRepo,
		usecase.RefreshConfig{
			Interval:       cfg.RefreshInterval,
			ArchiveEnabled: cfg.ArchiveEnabled,
		},
		logger,
	)

	handler := httpapi.NewHandler(store, cfg.RefreshInterval, slogger)
	router := httpapi.NewRouter(handler, slogger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Refresher: refresher,
		Store:     store,
		archiveDB: archiveDB,
	}, nil
}

// Close releases resources owned by the app. The HTTP server and refresher
// are stopped by the caller before Close.
func (a *App) Close() error {
	if a.archiveDB != nil {
		return a.archiveDB.Close()
	}
	return nil
}
