package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/redzone/external/espn"
	"github.com/riskibarqy/redzone/internal/domain/archive"
	"github.com/riskibarqy/redzone/internal/domain/scoreboard"
	"github.com/riskibarqy/redzone/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// LeagueFetcher pulls private fantasy league data for one scoring period.
type LeagueFetcher interface {
	FetchLeagueScoreboard(ctx context.Context, week int) (espn.LeagueScoreboard, []byte, error)
}

// ScoreboardFetcher pulls the public NFL scoreboard (week + game clocks).
type ScoreboardFetcher interface {
	FetchScoreboard(ctx context.Context) (espn.Scoreboard, []byte, error)
}

type RefreshConfig struct {
	Interval       time.Duration
	ArchiveEnabled bool
}

// RefreshService drives the poll loop: every interval it fetches provider
// data, rebuilds the snapshot and publishes it to the store. A tick that
// overruns the interval causes the next tick to be skipped, never stacked.
type RefreshService struct {
	league  LeagueFetcher
	board   ScoreboardFetcher
	builder *SnapshotBuilder
	store   *scoreboard.Store
	archive archive.Repository
	cfg     RefreshConfig
	logger  *logging.Logger
	now     func() time.Time

	running  atomic.Bool
	ticking  atomic.Bool
	lastWeek atomic.Int32
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewRefreshService(
	league LeagueFetcher,
	board ScoreboardFetcher,
	builder *SnapshotBuilder,
	store *scoreboard.Store,
	archiveRepo archive.Repository,
	cfg RefreshConfig,
	logger *logging.Logger,
) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 90 * time.Second
	}

	return &RefreshService{
		league:  league,
		board:   board,
		builder: builder,
		store:   store,
		archive: archiveRepo,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Start launches the poll loop. The first refresh runs immediately so the
// dashboard has data as soon as the service is reachable.
func (s *RefreshService) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("refresh loop already running")
	}
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.RefreshOnce(ctx); err != nil {
			s.logger.WarnContext(ctx, "initial refresh failed", "error", err)
		}

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				if err := s.RefreshOnce(ctx); err != nil {
					s.logger.WarnContext(ctx, "refresh failed", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *RefreshService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stopCh)
	s.wg.Wait()
}

// RefreshOnce performs a single fetch-build-publish cycle. Concurrent calls
// collapse: if a cycle is still in flight the call returns immediately.
func (s *RefreshService) RefreshOnce(ctx context.Context) error {
	if !s.ticking.CompareAndSwap(false, true) {
		s.logger.WarnContext(ctx, "refresh tick skipped, previous tick still running")
		return nil
	}
	defer s.ticking.Store(false)

	ctx, span := startUsecaseSpan(ctx, "RefreshService.RefreshOnce")
	defer span.End()

	started := s.now()
	week := int(s.lastWeek.Load())
	if week <= 0 {
		week = WeekFromDate(started)
	}

	var (
		league    espn.LeagueScoreboard
		leagueRaw []byte
		board     espn.Scoreboard
		boardRaw  []byte
	)

	fetches := pool.New().WithContext(ctx).WithCancelOnError()
	fetches.Go(func(ctx context.Context) error {
		var err error
		board, boardRaw, err = s.board.FetchScoreboard(ctx)
		if err != nil {
			return fmt.Errorf("fetch nfl scoreboard: %w", err)
		}
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		var err error
		league, leagueRaw, err = s.league.FetchLeagueScoreboard(ctx, week)
		if err != nil {
			return fmt.Errorf("fetch league scoreboard: %w", err)
		}
		return nil
	})
	if err := fetches.Wait(); err != nil {
		s.store.MarkFailure(err, s.now())
		return err
	}

	// The league fetch ran with last tick's week. When the scoreboard reports
	// a different week (first tick, or the week rolled over) refetch once.
	if actual := ClampWeek(board.Week, started); actual != week {
		s.logger.InfoContext(ctx, "scoring period changed, refetching league", "from", week, "to", actual)
		week = actual
		var err error
		league, leagueRaw, err = s.league.FetchLeagueScoreboard(ctx, week)
		if err != nil {
			err = fmt.Errorf("refetch league scoreboard: %w", err)
			s.store.MarkFailure(err, s.now())
			return err
		}
	}
	s.lastWeek.Store(int32(week))

	snapshot, err := s.builder.Build(ctx, league, board, week, started)
	if err != nil {
		err = fmt.Errorf("build snapshot: %w", err)
		s.store.MarkFailure(err, s.now())
		return err
	}

	s.store.Publish(&snapshot, s.now())
	s.archivePayloads(ctx, snapshot, leagueRaw, boardRaw)

	s.logger.InfoContext(ctx, "snapshot published",
		"week", snapshot.Week,
		"teams", len(snapshot.Teams),
		"took", s.now().Sub(started).String(),
	)
	return nil
}

// archivePayloads persists the snapshot and the raw bodies it came from.
// Archive failures are logged and swallowed; serving is never blocked on
// storage.
func (s *RefreshService) archivePayloads(ctx context.Context, snapshot scoreboard.Snapshot, leagueRaw, boardRaw []byte) {
	if !s.cfg.ArchiveEnabled || s.archive == nil {
		return
	}

	snapshotJSON, err := sonic.Marshal(snapshot)
	if err != nil {
		s.logger.WarnContext(ctx, "marshal snapshot for archive", "error", err)
		return
	}

	capturedAt := s.now()
	records := []archive.Record{
		{
			Source:      archive.SourceRefreshLoop,
			EntityType:  archive.EntitySnapshot,
			EntityKey:   fmt.Sprintf("snapshot:%d:%d", snapshot.Season, snapshot.Week),
			Season:      snapshot.Season,
			Week:        snapshot.Week,
			PayloadJSON: string(snapshotJSON),
			CapturedAt:  capturedAt,
		},
		{
			Source:      archive.SourceFantasyAPI,
			EntityType:  archive.EntityLeagueRaw,
			EntityKey:   fmt.Sprintf("league:%d:%d", snapshot.Season, snapshot.Week),
			Season:      snapshot.Season,
			Week:        snapshot.Week,
			PayloadJSON: string(leagueRaw),
			CapturedAt:  capturedAt,
		},
		{
			Source:      archive.SourceScoreboard,
			EntityType:  archive.EntityScoreboard,
			EntityKey:   fmt.Sprintf("scoreboard:%d:%d", snapshot.Season, snapshot.Week),
			Season:      snapshot.Season,
			Week:        snapshot.Week,
			PayloadJSON: string(boardRaw),
			CapturedAt:  capturedAt,
		},
	}

	if err := s.archive.UpsertMany(ctx, records); err != nil {
		s.logger.WarnContext(ctx, "archive write failed", "error", err)
	}
}
