package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/redzone/external/espn"
	"github.com/riskibarqy/redzone/internal/domain/scoreboard"
	"github.com/riskibarqy/redzone/internal/platform/logging"
)

const (
	rankedTopN             = 6
	maxBuilderWorkers      = 8
	defaultRosterSlotGuess = 9
)

// SnapshotBuilder turns raw provider payloads into a published scoreboard
// snapshot: team totals, per-player lines, live-blended projections and
// top-six ranks.
type SnapshotBuilder struct {
	logger *logging.Logger
}

func NewSnapshotBuilder(logger *logging.Logger) *SnapshotBuilder {
	if logger == nil {
		logger = logging.Default()
	}
	return &SnapshotBuilder{logger: logger}
}

// Build normalizes one league payload against the NFL game clocks. Sides with
// no resolvable team id are skipped rather than failing the whole snapshot.
func (b *SnapshotBuilder) Build(ctx context.Context, league espn.LeagueScoreboard, board espn.Scoreboard, week int, now time.Time) (scoreboard.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "SnapshotBuilder.Build")
	defer span.End()

	if week <= 0 {
		return scoreboard.Snapshot{}, fmt.Errorf("%w: week must be greater than zero", ErrInvalidInput)
	}

	namesByID := make(map[int]string, len(league.Teams))
	abbrevByID := make(map[int]string, len(league.Teams))
	for _, team := range league.Teams {
		namesByID[team.ID] = scoreboard.NormalizeTeamName(team.DisplayName())
		abbrevByID[team.ID] = team.Abbreviation
	}

	sides := collectMatchupSides(league, week)
	if len(sides) == 0 {
		return scoreboard.Snapshot{}, fmt.Errorf("no matchups found for week %d", week)
	}

	workerCount := len(sides)
	if workerCount > maxBuilderWorkers {
		workerCount = maxBuilderWorkers
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return scoreboard.Snapshot{}, fmt.Errorf("create builder pool: %w", err)
	}
	defer pool.Release()

	// Workers write by side index so tied scores keep the payload order
	// through the stable sort below.
	built := make([]*scoreboard.Team, len(sides))
	var workers sync.WaitGroup
	for i, side := range sides {
		i, side := i, side
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if side.TeamID <= 0 {
				b.logger.WarnContext(ctx, "skipping matchup side without team id")
				return
			}
			team := b.buildTeam(side, namesByID, abbrevByID, board, week)
			built[i] = &team
		}); err != nil {
			workers.Done()
			return scoreboard.Snapshot{}, fmt.Errorf("submit side to builder pool: %w", err)
		}
	}
	workers.Wait()

	teams := make([]scoreboard.Team, 0, len(sides))
	for _, team := range built {
		if team == nil {
			continue
		}
		teams = append(teams, *team)
	}
	if len(teams) == 0 {
		return scoreboard.Snapshot{}, fmt.Errorf("no scoreable teams in week %d payload", week)
	}

	scoreboard.SortTeams(teams)
	scoreboard.AssignRanks(teams, rankedTopN)

	return scoreboard.Snapshot{
		Season:    league.SeasonID,
		Week:      week,
		FetchedAt: now.UTC(),
		Teams:     teams,
	}, nil
}

func collectMatchupSides(league espn.LeagueScoreboard, week int) []espn.MatchupSide {
	period := league.Status.CurrentMatchupPeriod
	if period <= 0 {
		period = week
	}

	sides := make([]espn.MatchupSide, 0, len(league.Schedule)*2)
	for _, matchup := range league.Schedule {
		if matchup.MatchupPeriod != period {
			continue
		}
		sides = append(sides, matchup.Home, matchup.Away)
	}
	return sides
}

func (b *SnapshotBuilder) buildTeam(side espn.MatchupSide, namesByID map[int]string, abbrevByID map[int]string, board espn.Scoreboard, week int) scoreboard.Team {
	team := scoreboard.Team{
		ID:       side.TeamID,
		Name:     scoreboard.NormalizeTeamName(namesByID[side.TeamID]),
		Abbrev:   abbrevByID[side.TeamID],
		Starters: make([]scoreboard.Player, 0, defaultRosterSlotGuess),
		Bench:    make([]scoreboard.Player, 0, defaultRosterSlotGuess),
	}

	var starterPoints, starterProjected float64
	for _, entry := range side.RosterForCurrentScoringPeriod.Entries {
		player, ok := buildPlayer(entry, board, week)
		if !ok {
			continue
		}

		if entry.Benched() {
			team.Bench = append(team.Bench, player)
			continue
		}

		team.Starters = append(team.Starters, player)
		starterPoints += player.Points
		starterProjected += player.ProjectedPoints
		switch player.Status {
		case scoreboard.StatusInProgress:
			team.PlayingCount++
		case scoreboard.StatusCompleted:
			team.FinishedCount++
		default:
			team.RemainingCount++
		}
	}

	// The provider's live total is authoritative when present; summed starter
	// points cover payloads where it has not materialized yet.
	team.Score = side.LiveScore()
	if team.Score == 0 {
		team.Score = starterPoints
	}
	team.ProjectedScore = starterProjected

	return team
}

// buildPlayer resolves one roster entry into a player line. Projections blend
// toward actuals as the player's NFL game progresses.
func buildPlayer(entry espn.RosterEntry, board espn.Scoreboard, week int) (scoreboard.Player, bool) {
	pro := entry.PlayerPoolEntry.Player
	if pro.ID == 0 && pro.FullName == "" {
		return scoreboard.Player{}, false
	}

	actual, projected := pro.WeekPoints(week)
	proTeam := espn.ProTeamAbbrev(pro.ProTeamID)
	clock, hasClock := board.Clock(proTeam)

	player := scoreboard.Player{
		Name:     pro.FullName,
		Position: espn.PositionName(pro.DefaultPositionID),
		ProTeam:  proTeam,
		Points:   actual,
	}

	switch {
	case hasClock && clock.Finished():
		player.Status = scoreboard.StatusCompleted
		player.ProjectedPoints = actual
	case hasClock && clock.InProgress():
		player.Status = scoreboard.StatusInProgress
		player.ProjectedPoints = actual + projected*(1-clock.Progress())
	case hasClock:
		player.Status = scoreboard.StatusNotStarted
		player.ProjectedPoints = projected
	case actual != 0:
		// No clock for this pro team (bye resolution failed or stale
		// scoreboard) but points exist, so the game must have run.
		player.Status = scoreboard.StatusCompleted
		player.ProjectedPoints = actual
	default:
		player.Status = scoreboard.StatusNotStarted
		player.ProjectedPoints = projected
	}

	return player, true
}
