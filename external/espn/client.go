package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/redzone/internal/platform/logging"
	"github.com/riskibarqy/redzone/internal/platform/resilience"
)

// Sentinel errors surfaced to callers. Matched with errors.Is.
var (
	ErrInvalidRequest     = crerr.New("invalid espn request")
	ErrCredentialsExpired = crerr.New("espn credentials expired")
	ErrUnavailable        = crerr.New("espn provider unavailable")
)

const (
	defaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

	// Views that hydrate matchup scores, live rosters and projections in one call.
	scoreboardViews = "view=mMatchupScore&view=mScoreboard&view=mRoster"
)

var errESPNTransient = crerr.New("espn transient failure")
var cookieValueRegex = regexp.MustCompile(`(espn_s2|SWID)=[^;&\s"']+`)

// ClientConfig configures the fantasy league API client. Season pins the
// season explicitly; when it is zero, SeasonFn is consulted per request so a
// process running across the season boundary picks up the new season without
// a restart.
type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	LeagueID       int64
	Season         int
	SeasonFn       func() int
	ESPNS2         string
	SWID           string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads private league data from the ESPN fantasy API using the
// espn_s2/SWID cookie pair.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	leagueID       int64
	season         int
	seasonFn       func() int
	espnS2         string
	swid           string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		leagueID:       cfg.LeagueID,
		season:         cfg.Season,
		seasonFn:       cfg.SeasonFn,
		espnS2:         strings.TrimSpace(cfg.ESPNS2),
		swid:           strings.TrimSpace(cfg.SWID),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchLeagueScoreboard pulls matchup scores plus the live roster for one
// scoring period. The raw body is returned alongside the decoded payload so
// callers can archive it.
func (c *Client) FetchLeagueScoreboard(ctx context.Context, week int) (LeagueScoreboard, []byte, error) {
	if week <= 0 {
		return LeagueScoreboard{}, nil, fmt.Errorf("%w: week must be greater than zero", ErrInvalidRequest)
	}
	if c.leagueID <= 0 {
		return LeagueScoreboard{}, nil, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidRequest)
	}

	season := c.season
	if season <= 0 && c.seasonFn != nil {
		season = c.seasonFn()
	}
	if season <= 0 {
		return LeagueScoreboard{}, nil, fmt.Errorf("%w: season could not be resolved", ErrInvalidRequest)
	}

	path := fmt.Sprintf("/seasons/%d/segments/0/leagues/%d", season, c.leagueID)
	fullURL := fmt.Sprintf("%s%s?%s&scoringPeriodId=%d", c.baseURL, path, scoreboardViews, week)

	var payload LeagueScoreboard
	raw, err := c.doJSON(ctx, fullURL, &payload)
	if err != nil {
		return LeagueScoreboard{}, nil, fmt.Errorf("fetch league scoreboard week=%d: %w", week, err)
	}
	return payload, raw, nil
}

func (c *Client) doJSON(ctx context.Context, fullURL string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: fantasy data provider is temporarily unavailable", ErrUnavailable)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode espn payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
		req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errESPNTransient, c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				// Expired/invalid espn_s2+SWID pair. Never retried so the UI can
				// say "credentials expired" instead of "no data".
				return nil, fmt.Errorf("%w: provider status=%d", ErrCredentialsExpired, resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", c.redact(fullURL), "error", lastErr)
	return nil, lastErr
}

// redact strips cookie values from text destined for logs or errors.
func (c *Client) redact(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.espnS2 != "" {
		value = strings.ReplaceAll(value, c.espnS2, "REDACTED")
	}
	if c.swid != "" {
		value = strings.ReplaceAll(value, c.swid, "REDACTED")
	}
	return cookieValueRegex.ReplaceAllString(value, "$1=REDACTED")
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errESPNTransient)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
