package espn

import "strings"

// Wire shapes for the fantasy league read API
// (lm-api-reads.fantasy.espn.com/apis/v3/games/ffl).

const (
	lineupSlotBench   = 20
	lineupSlotIR      = 21
	statSourceActual  = 0
	statSourceProject = 1
)

type LeagueScoreboard struct {
	ID              int64        `json:"id"`
	SeasonID        int          `json:"seasonId"`
	ScoringPeriodID int          `json:"scoringPeriodId"`
	Status          LeagueStatus `json:"status"`
	Settings        Settings     `json:"settings"`
	Teams           []Team       `json:"teams"`
	Schedule        []Matchup    `json:"schedule"`
}

type LeagueStatus struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Nickname     string `json:"nickname"`
}

// DisplayName prefers the single name field newer seasons use and falls back
// to the legacy location + nickname pair.
func (t Team) DisplayName() string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(t.Location) + " " + strings.TrimSpace(t.Nickname))
}

type Matchup struct {
	ID             int         `json:"id"`
	MatchupPeriod  int         `json:"matchupPeriodId"`
	Away           MatchupSide `json:"away"`
	Home           MatchupSide `json:"home"`
	Winner         string      `json:"winner"`
	PlayoffTierTyp string      `json:"playoffTierType"`
}

type MatchupSide struct {
	TeamID                        int             `json:"teamId"`
	TotalPoints                   float64         `json:"totalPoints"`
	TotalPointsLive               float64         `json:"totalPointsLive"`
	TotalProjectedPointsLive      float64         `json:"totalProjectedPointsLive"`
	RosterForCurrentScoringPeriod RosterForPeriod `json:"rosterForCurrentScoringPeriod"`
}

// LiveScore prefers the live total when the period is still scoring.
func (s MatchupSide) LiveScore() float64 {
	if s.TotalPointsLive > 0 {
		return s.TotalPointsLive
	}
	return s.TotalPoints
}

type RosterForPeriod struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	LineupSlotID    int             `json:"lineupSlotId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
}

// Benched reports whether the slot does not score (bench or injured reserve).
func (e RosterEntry) Benched() bool {
	return e.LineupSlotID == lineupSlotBench || e.LineupSlotID == lineupSlotIR
}

type PlayerPoolEntry struct {
	ID               int     `json:"id"`
	OnTeamID         int     `json:"onTeamId"`
	AppliedStatTotal float64 `json:"appliedStatTotal"`
	Player           Player  `json:"player"`
}

type Player struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	InjuryStatus      string `json:"injuryStatus"`
	Stats             []Stat `json:"stats"`
}

type Stat struct {
	StatSourceID    int     `json:"statSourceId"`
	StatSplitTypeID int     `json:"statSplitTypeId"`
	ScoringPeriodID int     `json:"scoringPeriodId"`
	AppliedTotal    float64 `json:"appliedTotal"`
}

// WeekPoints returns actual and projected totals for one scoring period.
func (p Player) WeekPoints(week int) (actual float64, projected float64) {
	for _, stat := range p.Stats {
		if stat.ScoringPeriodID != week {
			continue
		}
		switch stat.StatSourceID {
		case statSourceActual:
			actual = stat.AppliedTotal
		case statSourceProject:
			projected = stat.AppliedTotal
		}
	}
	return actual, projected
}

var positionByID = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	7:  "P",
	9:  "DT",
	10: "DE",
	11: "LB",
	14: "CB",
	15: "S",
	16: "D/ST",
}

func PositionName(id int) string {
	if name, ok := positionByID[id]; ok {
		return name
	}
	return ""
}

var proTeamByID = map[int]string{
	1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN",
	8: "DET", 9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR",
	15: "MIA", 16: "MIN", 17: "NE", 18: "NO", 19: "NYG", 20: "NYJ", 21: "PHI",
	22: "ARI", 23: "PIT", 24: "LAC", 25: "SF", 26: "SEA", 27: "TB", 28: "WSH",
	29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
}

func ProTeamAbbrev(id int) string {
	return proTeamByID[id]
}
