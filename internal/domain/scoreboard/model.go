package scoreboard

import (
	"sort"
	"strings"
	"time"
)

const (
	// UnknownTeamName is used when the provider payload carries no usable team name.
	UnknownTeamName = "Unknown Team"

	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Player is one rostered player inside a team snapshot.
type Player struct {
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	ProTeam         string  `json:"pro_team,omitempty"`
	Status          string  `json:"status"`
	Points          float64 `json:"points"`
	ProjectedPoints float64 `json:"projected_points"`
}

// Team is one fantasy team with its live score and roster split.
// Teams are created wholesale per refresh cycle and never mutated afterwards.
type Team struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Abbrev         string   `json:"abbrev,omitempty"`
	Score          float64  `json:"score"`
	ProjectedScore float64  `json:"projected_score"`
	Rank           int      `json:"rank"`
	Top6           bool     `json:"top6"`
	ProjectedRank  int      `json:"projected_rank"`
	ProjectedTop6  bool     `json:"projected_top6"`
	Starters       []Player `json:"starters"`
	Bench          []Player `json:"bench"`
	PlayingCount   int      `json:"playing_count"`
	RemainingCount int      `json:"remaining_count"`
	FinishedCount  int      `json:"finished_count"`
}

// Snapshot is the full set of teams for one refresh cycle. Immutable once published.
type Snapshot struct {
	Season    int       `json:"season"`
	Week      int       `json:"week"`
	FetchedAt time.Time `json:"fetched_at"`
	Teams     []Team    `json:"teams"`
}

func NormalizeTeamName(value string) string {
	name := strings.TrimSpace(value)
	if name == "" {
		return UnknownTeamName
	}
	return name
}

func NormalizeStatus(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case StatusInProgress:
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// SortTeams orders teams by descending live score; equal scores keep their
// original payload order.
func SortTeams(teams []Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Score > teams[j].Score
	})
}

// AssignRanks stamps rank/top-6 markers by live score and by projected score.
// The slice order after return is the live-score order.
func AssignRanks(teams []Team, topN int) {
	if topN <= 0 {
		topN = 6
	}

	SortTeams(teams)
	for i := range teams {
		teams[i].Rank = i + 1
		teams[i].Top6 = i < topN
	}

	byProjection := make([]*Team, 0, len(teams))
	for i := range teams {
		byProjection = append(byProjection, &teams[i])
	}
	sort.SliceStable(byProjection, func(i, j int) bool {
		return byProjection[i].ProjectedScore > byProjection[j].ProjectedScore
	})
	for i, item := range byProjection {
		item.ProjectedRank = i + 1
		item.ProjectedTop6 = i < topN
	}
}
