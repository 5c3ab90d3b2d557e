package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/riskibarqy/redzone/internal/domain/scoreboard"
	"github.com/riskibarqy/redzone/internal/usecase"
)

// Handler serves the dashboard and the JSON API. All reads come from the
// in-memory store; no request ever talks to the provider directly.
type Handler struct {
	store           *scoreboard.Store
	refreshInterval time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

func NewHandler(store *scoreboard.Store, refreshInterval time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:           store,
		refreshInterval: refreshInterval,
		logger:          logger,
		now:             time.Now,
	}
}

type playerDTO struct {
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	ProTeam         string  `json:"pro_team"`
	Status          string  `json:"status"`
	Points          float64 `json:"points"`
	ProjectedPoints float64 `json:"projected_points"`
}

type teamDTO struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Abbrev         string      `json:"abbrev,omitempty"`
	Score          float64     `json:"score"`
	ProjectedScore float64     `json:"projected_score"`
	Rank           int         `json:"rank"`
	Top6           bool        `json:"top6"`
	ProjectedRank  int         `json:"projected_rank"`
	ProjectedTop6  bool        `json:"projected_top6"`
	PlayingCount   int         `json:"playing_count"`
	RemainingCount int         `json:"remaining_count"`
	FinishedCount  int         `json:"finished_count"`
	Starters       []playerDTO `json:"starters"`
	Bench          []playerDTO `json:"bench"`
}

type scoresDTO struct {
	Season     int       `json:"season"`
	Week       int       `json:"week"`
	FetchedAt  time.Time `json:"fetched_at"`
	AgeSeconds float64   `json:"age_seconds"`
	Degraded   bool      `json:"degraded"`
	LastError  string    `json:"last_error,omitempty"`
	Teams      []teamDTO `json:"teams"`
}

// GetDashboard renders the HTML score page. An empty store still renders a
// waiting page rather than an error.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	state := h.store.Latest()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderDashboard(w, state, h.refreshInterval); err != nil {
		h.logger.ErrorContext(ctx, "render dashboard failed", "error", err)
	}
}

// GetScores serves the latest snapshot as JSON.
func (h *Handler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScores")
	defer span.End()

	state := h.store.Latest()
	if state.Snapshot == nil {
		// Before the first snapshot, a typed provider failure beats the
		// generic "no data": expired cookies should read as 401, not 503.
		if err := state.LastErr; err != nil &&
			(errors.Is(err, usecase.ErrCredentialsExpired) || errors.Is(err, usecase.ErrDependencyUnavailable)) {
			writeError(ctx, w, err)
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: no scores published yet", usecase.ErrNoSnapshot))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, buildScoresDTO(state, h.now()))
}

// GetHealth reports snapshot freshness for probes and monitors.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHealth")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.store.HealthAt(h.now()))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func buildScoresDTO(state *scoreboard.PublishedState, now time.Time) scoresDTO {
	snapshot := state.Snapshot
	age := now.UTC().Sub(state.PublishedAt).Seconds()
	if age < 0 {
		age = 0
	}

	out := scoresDTO{
		Season:     snapshot.Season,
		Week:       snapshot.Week,
		FetchedAt:  snapshot.FetchedAt,
		AgeSeconds: age,
		Degraded:   state.Degraded,
		LastError:  state.LastError,
		Teams:      make([]teamDTO, 0, len(snapshot.Teams)),
	}

	for _, team := range snapshot.Teams {
		out.Teams = append(out.Teams, teamDTO{
			ID:             team.ID,
			Name:           team.Name,
			Abbrev:         team.Abbrev,
			Score:          team.Score,
			ProjectedScore: team.ProjectedScore,
			Rank:           team.Rank,
			Top6:           team.Top6,
			ProjectedRank:  team.ProjectedRank,
			ProjectedTop6:  team.ProjectedTop6,
			PlayingCount:   team.PlayingCount,
			RemainingCount: team.RemainingCount,
			FinishedCount:  team.FinishedCount,
			Starters:       toPlayerDTOs(team.Starters),
			Bench:          toPlayerDTOs(team.Bench),
		})
	}
	return out
}

func toPlayerDTOs(players []scoreboard.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, player := range players {
		out = append(out, playerDTO{
			Name:            player.Name,
			Position:        player.Position,
			ProTeam:         player.ProTeam,
			Status:          player.Status,
			Points:          player.Points,
			ProjectedPoints: player.ProjectedPoints,
		})
	}
	return out
}
