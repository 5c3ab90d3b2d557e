package httpapi

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/riskibarqy/redzone/internal/domain/scoreboard"
	"github.com/valyala/bytebufferpool"
)

// dashboardView is the template model for the score page.
type dashboardView struct {
	Week           int
	Season         int
	FetchedAt      string
	RefreshSeconds int
	Degraded       bool
	LastError      string
	HasSnapshot    bool
	Teams          []scoreboard.Team
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"points": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>RedZone{{if .HasSnapshot}} · Week {{.Week}}{{end}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #101418; color: #e8e8e8; margin: 0; padding: 1rem; }
h1 { font-size: 1.3rem; margin: 0 0 .25rem; }
.sub { color: #9aa4ad; font-size: .8rem; margin-bottom: 1rem; }
.warn { background: #4d2b12; border: 1px solid #a65c1c; border-radius: 6px; padding: .5rem .75rem; margin-bottom: 1rem; font-size: .85rem; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); gap: .75rem; }
.card { background: #1a2027; border: 1px solid #2b333c; border-radius: 8px; padding: .75rem; }
.card.top6 { border-color: #2e7d32; }
.team { display: flex; justify-content: space-between; align-items: baseline; }
.team .name { font-weight: 600; }
.team .score { font-size: 1.4rem; font-weight: 700; }
.meta { color: #9aa4ad; font-size: .75rem; margin: .25rem 0 .5rem; }
table { width: 100%; border-collapse: collapse; font-size: .78rem; }
td { padding: .15rem 0; border-top: 1px solid #232b33; }
td.pts { text-align: right; white-space: nowrap; }
.in-progress { color: #66bb6a; }
.completed { color: #9aa4ad; }
.not-started { color: #5c6770; }
</style>
</head>
<body>
<h1>RedZone Live Scores</h1>
{{if .HasSnapshot}}
<div class="sub">Season {{.Season}} · Week {{.Week}} · updated {{.FetchedAt}}</div>
{{if .Degraded}}<div class="warn">Refresh degraded, showing last good data: {{.LastError}}</div>{{end}}
<div class="grid">
{{range .Teams}}
<div class="card{{if .Top6}} top6{{end}}">
  <div class="team">
    <span class="name">#{{.Rank}} {{.Name}}</span>
    <span class="score">{{points .Score}}</span>
  </div>
  <div class="meta">proj {{points .ProjectedScore}} · {{.PlayingCount}} playing · {{.RemainingCount}} left · {{.FinishedCount}} done</div>
  <table>
  {{range .Starters}}
    <tr class="{{.Status}}"><td>{{.Position}} {{.Name}} ({{.ProTeam}})</td><td class="pts">{{points .Points}} / {{points .ProjectedPoints}}</td></tr>
  {{end}}
  </table>
</div>
{{end}}
</div>
{{else}}
<div class="sub">Waiting for the first score refresh.</div>
{{if .LastError}}<div class="warn">{{.LastError}}</div>{{end}}
{{end}}
</body>
</html>
`))

// renderDashboard writes the page through a pooled buffer so a slow client
// cannot hold a half-rendered template.
func renderDashboard(w io.Writer, state *scoreboard.PublishedState, refreshInterval time.Duration) error {
	view := dashboardView{
		RefreshSeconds: int(refreshInterval.Seconds()),
		Degraded:       state.Degraded,
		LastError:      state.LastError,
	}
	if view.RefreshSeconds <= 0 {
		view.RefreshSeconds = 90
	}
	if state.Snapshot != nil {
		view.HasSnapshot = true
		view.Week = state.Snapshot.Week
		view.Season = state.Snapshot.Season
		view.FetchedAt = state.Snapshot.FetchedAt.UTC().Format("15:04:05 MST")
		view.Teams = state.Snapshot.Teams
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := dashboardTemplate.Execute(buf, view); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	_, err := w.Write(buf.B)
	return err
}
