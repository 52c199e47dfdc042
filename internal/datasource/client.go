package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

const sourceName = "race_data_api"

// APIClient implements RaceDataSource against the race data service JSON API.
type APIClient struct {
	httpClient   *RateLimitedHTTPClient
	baseURL      string
	historyRaces int
	logger       *logrus.Logger
}

// apiRace is a race card entry as published by the service
type apiRace struct {
	RaceID   string `json:"race_id"`
	RaceName string `json:"race_name"`
	Course   string `json:"course"`
	Date     string `json:"date"`
}

// apiEntrant is one card line. The service publishes odds as strings; a
// scratched entrant carries an empty string.
type apiEntrant struct {
	HorseID      string       `json:"horse_id"`
	HorseName    string       `json:"horse_name"`
	Jockey       string       `json:"jockey"`
	Weight       string       `json:"weight"`
	OddsWin      string       `json:"odds_win"`
	OddsPlace    string       `json:"odds_place"`
	HorseNumber  int          `json:"horse_number"`
	GateNumber   int          `json:"gate_number"`
	BodyWeight   string       `json:"body_weight"`
	WeightChange *int         `json:"weight_change"`
	Popularity   int          `json:"popularity"`
	History      []apiHistory `json:"history"`
}

// apiHistory is one past run of an entrant
type apiHistory struct {
	Ranking   *int   `json:"ranking"`
	FieldSize int    `json:"field_size"`
	Last3F    string `json:"last_3f"`
}

// apiResult is the post-race snapshot as published by the service
type apiResult struct {
	RaceID   string           `json:"race_id"`
	RaceName string           `json:"race_name"`
	Date     string           `json:"date"`
	Course   string           `json:"course"`
	Horses   []apiResultHorse `json:"horses"`
	Payouts  []apiPayout      `json:"payouts"`
}

type apiResultHorse struct {
	Ranking     *int   `json:"ranking"`
	HorseNumber int    `json:"horse_number"`
	HorseName   string `json:"horse_name"`
	Jockey      string `json:"jockey"`
	Time        string `json:"time"`
	OddsWin     string `json:"odds_win"`
	Popularity  int    `json:"popularity"`
}

type apiPayout struct {
	BetType string           `json:"bet_type"`
	Results []apiPayoutEntry `json:"results"`
}

// apiPayoutEntry is one paying combination. Amount arrives formatted with
// thousands separators ("12,500").
type apiPayoutEntry struct {
	HorseNumbers string `json:"horse_numbers"`
	Amount       string `json:"amount"`
	Popularity   int    `json:"popularity"`
}

// poolNames maps the service's Japanese pool labels to bet types.
var poolNames = map[string]models.BetType{
	"単勝":  models.BetTypeWin,
	"複勝":  models.BetTypePlace,
	"ワイド": models.BetTypeWide,
	"3連複": models.BetTypeTrio,
	"3連単": models.BetTypeTrifecta,
}

// NewAPIClient creates a new race data service client
func NewAPIClient(httpClient *RateLimitedHTTPClient, baseURL string, historyRaces int, logger *logrus.Logger) *APIClient {
	return &APIClient{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		historyRaces: historyRaces,
		logger:       logger,
	}
}

// ListUpcomingRaces retrieves races scheduled within the next `days` days
func (c *APIClient) ListUpcomingRaces(ctx context.Context, days int) ([]models.Race, error) {
	now := time.Now()
	return c.listRaces(ctx, now, now.AddDate(0, 0, days))
}

// ListPastRaces retrieves finished races from the last `days` days
func (c *APIClient) ListPastRaces(ctx context.Context, days int) ([]models.Race, error) {
	now := time.Now()
	return c.listRaces(ctx, now.AddDate(0, 0, -days), now.AddDate(0, 0, -1))
}

func (c *APIClient) listRaces(ctx context.Context, from, to time.Time) ([]models.Race, error) {
	url := fmt.Sprintf("%s/races?from=%s&to=%s", c.baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"))

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "failed to fetch races", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "race list"); err != nil {
		return nil, err
	}

	var apiRaces []apiRace
	if err := json.NewDecoder(resp.Body).Decode(&apiRaces); err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "failed to parse race list", err)
	}

	races := make([]models.Race, 0, len(apiRaces))
	for _, r := range apiRaces {
		races = append(races, models.Race{
			ID:         r.RaceID,
			Name:       r.RaceName,
			Course:     r.Course,
			Date:       r.Date,
			Venue:      models.VenueFromRaceID(r.RaceID),
			RaceNumber: models.RaceNumberFromRaceID(r.RaceID),
		})
	}
	return races, nil
}

// FetchEntrants retrieves the race card with odds and form history
func (c *APIClient) FetchEntrants(ctx context.Context, raceID string) ([]models.Horse, error) {
	url := fmt.Sprintf("%s/races/%s/entrants?history=%d", c.baseURL, raceID, c.historyRaces)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "failed to fetch entrants", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "entrants"); err != nil {
		return nil, err
	}

	var entrants []apiEntrant
	if err := json.NewDecoder(resp.Body).Decode(&entrants); err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "failed to parse entrants", err)
	}

	horses := make([]models.Horse, 0, len(entrants))
	for _, e := range entrants {
		horses = append(horses, c.convertEntrant(e))
	}
	return horses, nil
}

// FetchResult retrieves the final order and payout tables for a finished race
func (c *APIClient) FetchResult(ctx context.Context, raceID string) (*models.RaceResult, error) {
	url := fmt.Sprintf("%s/races/%s/result", c.baseURL, raceID)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeNetworkError, "failed to fetch result", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "result"); err != nil {
		return nil, err
	}

	var apiRes apiResult
	if err := json.NewDecoder(resp.Body).Decode(&apiRes); err != nil {
		return nil, NewDataSourceError(sourceName, ErrCodeInvalidData, "failed to parse result", err)
	}

	return c.convertResult(&apiRes), nil
}

// Name returns the data source name
func (c *APIClient) Name() string {
	return sourceName
}

// HealthCheck verifies the race data service is reachable
func (c *APIClient) HealthCheck(ctx context.Context) error {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/health")
	if err != nil {
		return NewDataSourceError(sourceName, ErrCodeNetworkError, "health check failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewDataSourceError(sourceName, ErrCodeServerError, fmt.Sprintf("health check returned status %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *APIClient) convertEntrant(e apiEntrant) models.Horse {
	horse := models.Horse{
		ID:           e.HorseID,
		Name:         e.HorseName,
		Jockey:       e.Jockey,
		Weight:       parseFloat(e.Weight),
		OddsWin:      parseOdds(e.OddsWin),
		OddsPlace:    parseOdds(e.OddsPlace),
		HorseNumber:  e.HorseNumber,
		GateNumber:   e.GateNumber,
		BodyWeight:   int(parseAmount(e.BodyWeight)),
		WeightChange: e.WeightChange,
		Popularity:   e.Popularity,
	}

	for _, h := range e.History {
		horse.RaceHistory = append(horse.RaceHistory, models.HistoryEntry{
			Ranking:   h.Ranking,
			FieldSize: h.FieldSize,
			Last3F:    parseFloat(h.Last3F),
		})
	}
	return horse
}

func (c *APIClient) convertResult(r *apiResult) *models.RaceResult {
	result := &models.RaceResult{
		RaceID:   r.RaceID,
		RaceName: r.RaceName,
		Venue:    models.VenueFromRaceID(r.RaceID),
		Date:     r.Date,
		Course:   r.Course,
	}

	for _, h := range r.Horses {
		result.Horses = append(result.Horses, models.HorseResult{
			Ranking:     h.Ranking,
			HorseNumber: h.HorseNumber,
			Name:        h.HorseName,
			Jockey:      h.Jockey,
			Time:        h.Time,
			OddsWin:     parseOdds(h.OddsWin),
			Popularity:  h.Popularity,
		})
	}

	for _, p := range r.Payouts {
		betType, ok := poolNames[p.BetType]
		if !ok {
			c.logger.WithField("bet_type", p.BetType).Debug("Skipping unsupported payout pool")
			continue
		}
		payout := models.Payout{Type: betType}
		for _, entry := range p.Results {
			payout.Results = append(payout.Results, models.PayoutLine{
				HorseNumbers: entry.HorseNumbers,
				Amount:       int(parseAmount(entry.Amount)),
				Popularity:   entry.Popularity,
			})
		}
		result.Payouts = append(result.Payouts, payout)
	}
	return result
}

func checkStatus(resp *http.Response, what string) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(sourceName, ErrCodeNotFound, what+" not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(sourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(sourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d for %s: %s", resp.StatusCode, what, string(body)), nil)
	}
}

// parseOdds parses a decimal odds string. Empty or malformed strings mean a
// scratched or unpriced entrant and map to zero.
func parseOdds(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// parseAmount parses an integer amount formatted with thousands separators.
func parseAmount(s string) int64 {
	if s == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.IntPart()
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
