package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"matchpredict-go/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// FootballAPIService is the client for the third-party fixtures provider.
// The free tier is strictly rate limited, so every call goes through a
// limiter and transient failures are retried with exponential backoff.
type FootballAPIService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  zerolog.Logger
}

// NewFootballAPIService creates a new fixtures API client
func NewFootballAPIService(baseURL, apiKey string, timeout time.Duration) *FootballAPIService {
	return &FootballAPIService{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5), // 5 requests per second
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  log.With().Str("component", "football_api").Logger(),
	}
}

// Fixture API response structures
type fixtureResponse struct {
	Response []fixtureEntry  `json:"response"`
	Errors   json.RawMessage `json:"errors,omitempty"`
}

// providerError surfaces the in-body error object the provider returns with
// HTTP 200 on quota and auth failures. An empty object or array means no
// error.
func providerError(raw json.RawMessage) error {
	switch strings.TrimSpace(string(raw)) {
	case "", "[]", "{}", "null":
		return nil
	}
	return fmt.Errorf("provider reported errors: %s", raw)
}

type fixtureEntry struct {
	Fixture fixtureInfo   `json:"fixture"`
	League  fixtureLeague `json:"league"`
	Teams   fixtureTeams  `json:"teams"`
	Goals   fixtureGoals  `json:"goals"`
}

type fixtureInfo struct {
	ID     int64         `json:"id"`
	Date   time.Time     `json:"date"`
	Status fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Short string `json:"short"`
}

type fixtureLeague struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type fixtureTeams struct {
	Home fixtureTeam `json:"home"`
	Away fixtureTeam `json:"away"`
}

type fixtureTeam struct {
	Name string `json:"name"`
}

type fixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type predictionResponse struct {
	Errors   json.RawMessage `json:"errors,omitempty"`
	Response []struct {
		Predictions struct {
			Percent struct {
				Home string `json:"home"`
			} `json:"percent"`
		} `json:"predictions"`
	} `json:"response"`
}

// GetFixturesByDate fetches all fixtures scheduled on the given calendar day
func (s *FootballAPIService) GetFixturesByDate(ctx context.Context, day time.Time) ([]models.Match, error) {
	url := fmt.Sprintf("%s/fixtures?date=%s", s.baseURL, day.UTC().Format("2006-01-02"))

	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var data fixtureResponse
	if err := json.Unmarshal(body, &data); err != nil {
		s.logger.Error().Err(err).Msg("failed to parse fixtures response")
		return nil, fmt.Errorf("parsing fixtures JSON: %w", err)
	}
	if err := providerError(data.Errors); err != nil {
		s.logger.Error().Err(err).Msg("fixtures request rejected by provider")
		return nil, err
	}

	matches := make([]models.Match, 0, len(data.Response))
	for _, entry := range data.Response {
		matches = append(matches, models.Match{
			ID:     entry.Fixture.ID,
			Date:   entry.Fixture.Date,
			Status: mapFixtureStatus(entry.Fixture.Status.Short),
			League: models.League{
				ID:      entry.League.ID,
				Name:    entry.League.Name,
				Country: entry.League.Country,
			},
			Teams: models.Teams{
				Home: entry.Teams.Home.Name,
				Away: entry.Teams.Away.Name,
			},
			HomeScore: entry.Goals.Home,
			AwayScore: entry.Goals.Away,
		})
	}

	s.logger.Debug().Int("count", len(matches)).Str("day", day.UTC().Format("2006-01-02")).Msg("fetched fixtures")
	return matches, nil
}

// GetHomeWinPercent fetches the provider's predicted home-win probability for
// one fixture. Returns 0 when the provider has no prediction.
func (s *FootballAPIService) GetHomeWinPercent(ctx context.Context, fixtureID int64) (float64, error) {
	url := fmt.Sprintf("%s/predictions?fixture=%d", s.baseURL, fixtureID)

	body, err := s.get(ctx, url)
	if err != nil {
		return 0, err
	}

	var data predictionResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("parsing predictions JSON: %w", err)
	}
	if err := providerError(data.Errors); err != nil {
		return 0, err
	}
	if len(data.Response) == 0 {
		return 0, nil
	}

	// Provider formats percentages as strings like "45%"
	raw := strings.TrimSuffix(data.Response[0].Predictions.Percent.Home, "%")
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, nil
	}
	return pct, nil
}

// get performs a rate-limited GET with retries and returns the response body
func (s *FootballAPIService) get(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-apisports-key", s.apiKey)

	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = s.client.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, fmt.Errorf("after retries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// mapFixtureStatus maps the provider's short status codes onto our states
func mapFixtureStatus(short string) models.MatchStatus {
	switch short {
	case "NS", "TBD":
		return models.MatchStatusScheduled
	case "1H", "HT", "2H", "ET", "BT", "P", "LIVE":
		return models.MatchStatusInPlay
	case "FT", "AET", "PEN":
		return models.MatchStatusFinished
	case "PST", "CANC", "ABD", "SUSP":
		return models.MatchStatusPostponed
	default:
		return models.MatchStatusScheduled
	}
}
