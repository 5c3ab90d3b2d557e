package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/redzone/internal/platform/logging"
)

const defaultScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard"

const regulationMinutes = 60.0

// GameClock is the live state of one NFL game, keyed by pro-team abbreviation.
type GameClock struct {
	State         string
	StatusName    string
	DisplayClock  string
	Period        int
	MinutesPlayed float64
}

// Progress is the fraction of regulation time played, in [0, 1].
func (g GameClock) Progress() float64 {
	progress := g.MinutesPlayed / regulationMinutes
	if progress > 1 {
		return 1
	}
	if progress < 0 {
		return 0
	}
	return progress
}

func (g GameClock) Finished() bool {
	return strings.EqualFold(g.State, "post") || isFinishedStatusName(g.StatusName)
}

func (g GameClock) InProgress() bool {
	return strings.EqualFold(g.State, "in") || isActiveStatusName(g.StatusName)
}

// Scoreboard is the normalized public scoreboard view: the current NFL week
// plus per-team game clocks.
type Scoreboard struct {
	Week   int
	Clocks map[string]GameClock
}

// Clock returns the clock for a pro-team abbreviation.
func (s Scoreboard) Clock(proTeam string) (GameClock, bool) {
	clock, ok := s.Clocks[strings.ToUpper(strings.TrimSpace(proTeam))]
	return clock, ok
}

// ScoreboardClient reads the public (unauthenticated) NFL scoreboard.
type ScoreboardClient struct {
	httpClient *http.Client
	url        string
	logger     *logging.Logger
}

func NewScoreboardClient(httpClient *http.Client, url string, logger *logging.Logger) *ScoreboardClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(url) == "" {
		url = defaultScoreboardURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreboardClient{httpClient: httpClient, url: url, logger: logger}
}

// FetchScoreboard returns the current week and game clocks. The raw body is
// returned for archiving.
func (c *ScoreboardClient) FetchScoreboard(ctx context.Context) (Scoreboard, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Scoreboard{}, nil, fmt.Errorf("build scoreboard request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Scoreboard{}, nil, crerr.Wrap(err, "fetch nfl scoreboard")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Scoreboard{}, nil, fmt.Errorf("read scoreboard body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Scoreboard{}, nil, fmt.Errorf("scoreboard status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	var envelope scoreboardEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return Scoreboard{}, nil, fmt.Errorf("decode scoreboard payload: %w", err)
	}

	return Scoreboard{
		Week:   envelope.Week.Number,
		Clocks: buildGameClocks(envelope.Events),
	}, raw, nil
}

type scoreboardEnvelope struct {
	Week   scoreboardWeek    `json:"week"`
	Events []scoreboardEvent `json:"events"`
}

type scoreboardWeek struct {
	Number int `json:"number"`
}

type scoreboardEvent struct {
	ID           string                  `json:"id"`
	Date         string                  `json:"date"`
	Competitions []scoreboardCompetition `json:"competitions"`
	Status       scoreboardStatus        `json:"status"`
}

type scoreboardCompetition struct {
	Competitors []scoreboardCompetitor `json:"competitors"`
	Status      scoreboardStatus       `json:"status"`
}

type scoreboardCompetitor struct {
	HomeAway string         `json:"homeAway"`
	Team     scoreboardTeam `json:"team"`
}

type scoreboardTeam struct {
	Abbreviation string `json:"abbreviation"`
}

type scoreboardStatus struct {
	DisplayClock string               `json:"displayClock"`
	Period       int                  `json:"period"`
	Type         scoreboardStatusType `json:"type"`
}

type scoreboardStatusType struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

func buildGameClocks(events []scoreboardEvent) map[string]GameClock {
	clocks := make(map[string]GameClock, len(events)*2)
	for _, event := range events {
		if len(event.Competitions) == 0 {
			continue
		}
		competition := event.Competitions[0]
		if len(competition.Competitors) < 2 {
			continue
		}

		status := competition.Status
		if status.Type.Name == "" && status.Type.State == "" {
			status = event.Status
		}

		clock := GameClock{
			State:        strings.ToLower(strings.TrimSpace(status.Type.State)),
			StatusName:   strings.ToLower(strings.TrimSpace(status.Type.Name)),
			DisplayClock: status.DisplayClock,
			Period:       status.Period,
		}
		clock.MinutesPlayed = minutesPlayed(status.DisplayClock, status.Period, clock.StatusName, clock.State)

		for _, competitor := range competition.Competitors {
			abbrev := strings.ToUpper(strings.TrimSpace(competitor.Team.Abbreviation))
			if abbrev == "" {
				continue
			}
			clocks[abbrev] = clock
		}
	}
	return clocks
}

// minutesPlayed converts the display clock + period into elapsed regulation
// minutes, clamped to [0, 60].
func minutesPlayed(displayClock string, period int, statusName, state string) float64 {
	if state == "post" || isFinishedStatusName(statusName) {
		return regulationMinutes
	}
	if state == "pre" || strings.Contains(statusName, "scheduled") || strings.Contains(statusName, "pre") {
		return 0
	}

	remaining := 0.0
	if parts := strings.SplitN(strings.TrimSpace(displayClock), ":", 2); len(parts) == 2 {
		minutes, errM := strconv.Atoi(parts[0])
		seconds, errS := strconv.Atoi(parts[1])
		if errM == nil && errS == nil {
			remaining = float64(minutes) + float64(seconds)/60.0
		}
	}

	completedQuarters := period - 1
	if completedQuarters < 0 {
		completedQuarters = 0
	}
	total := float64(completedQuarters)*15.0 + (15.0 - remaining)
	if total < 0 {
		return 0
	}
	if total > regulationMinutes {
		return regulationMinutes
	}
	return total
}

func isFinishedStatusName(name string) bool {
	switch {
	case strings.Contains(name, "final"), strings.Contains(name, "post"):
		return true
	default:
		return false
	}
}

func isActiveStatusName(name string) bool {
	switch {
	case strings.Contains(name, "in_progress"),
		strings.Contains(name, "halftime"),
		strings.Contains(name, "end_period"),
		strings.Contains(name, "delayed"):
		return true
	default:
		return false
	}
}
