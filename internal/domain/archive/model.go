package archive

import "time"

const (
	EntitySnapshot    = "snapshot"
	EntityLeagueRaw   = "league_raw"
	EntityScoreboard  = "nfl_scoreboard"
	SourceFantasyAPI  = "espn_fantasy"
	SourceScoreboard  = "espn_scoreboard"
	SourceRefreshLoop = "refresh_loop"
)

// Record is one archived payload: a published snapshot or the raw provider
// response it was built from. Kept for diagnostics only; losing rows is fine.
type Record struct {
	Source      string
	EntityType  string
	EntityKey   string
	Season      int
	Week        int
	PayloadJSON string
	CapturedAt  time.Time
}
