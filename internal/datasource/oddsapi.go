package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IsaJohn05/nba-player-props-model/internal/metrics"
	"github.com/IsaJohn05/nba-player-props-model/internal/models"
)

const oddsAPISourceName = "the_odds_api"

// OddsAPIClient implements OddsSource for The Odds API v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      string
	regions    string
	enabled    bool
	logger     *log.Logger
}

// oddsAPIEvent represents an upcoming event from the events endpoint
type oddsAPIEvent struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// oddsAPIEventOdds represents the per-event odds payload
type oddsAPIEventOdds struct {
	ID           string             `json:"id"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []oddsAPIMarket `json:"markets"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

// oddsAPIOutcome is a single priced side. For player props the player name
// usually arrives in description and the side in name, but some books swap
// them.
type oddsAPIOutcome struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Point       float64     `json:"point"`
	Price       json.Number `json:"price"`
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, sport, regions string, enabled bool, logger *log.Logger) *OddsAPIClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		sport:      sport,
		regions:    regions,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the data source name
func (c *OddsAPIClient) Name() string {
	return oddsAPISourceName
}

// IsEnabled returns whether this data source is enabled
func (c *OddsAPIClient) IsEnabled() bool {
	return c.enabled
}

// marketKey maps a stat category to The Odds API market key
func marketKey(category models.StatCategory) (string, error) {
	switch category {
	case models.CategoryPoints:
		return "player_points", nil
	case models.CategoryAssists:
		return "player_assists", nil
	case models.CategoryRebounds:
		return "player_rebounds", nil
	default:
		return "", fmt.Errorf("no prop market for category %q", category)
	}
}

// FetchPropQuotes retrieves player prop quotes for the given category across
// all upcoming events
func (c *OddsAPIClient) FetchPropQuotes(ctx context.Context, category models.StatCategory) ([]models.MarketQuote, error) {
	if !c.enabled {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "data source disabled", ErrSourceDisabled)
	}

	market, err := marketKey(category)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, err.Error(), nil)
	}

	events, err := c.fetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	var quotes []models.MarketQuote
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		payload, err := c.fetchEventOdds(ctx, ev.ID, market)
		if err != nil {
			c.logger.Printf("Failed to fetch %s props for event %s: %v", market, ev.ID, err)
			continue
		}
		flattened := flattenEventQuotes(payload, market, category, fetchedAt)
		for i := range flattened {
			metrics.RecordQuoteFetched(string(category), flattened[i].BookKey)
		}
		quotes = append(quotes, flattened...)
	}

	sortQuotes(quotes)
	return quotes, nil
}

// fetchEvents retrieves upcoming events for the configured sport
func (c *OddsAPIClient) fetchEvents(ctx context.Context) ([]oddsAPIEvent, error) {
	u := fmt.Sprintf("%s/v4/sports/%s/events?apiKey=%s", c.baseURL, c.sport, url.QueryEscape(c.apiKey))

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		metrics.RecordOddsAPIRequest("events", "failure", time.Since(start).Seconds())
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch events", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		metrics.RecordOddsAPIRequest("events", requestStatus(resp.StatusCode), time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordOddsAPIRequest("events", "success", time.Since(start).Seconds())

	var events []oddsAPIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse events response", err)
	}
	return events, nil
}

// fetchEventOdds retrieves the prop odds payload for a single event
func (c *OddsAPIClient) fetchEventOdds(ctx context.Context, eventID, market string) (*oddsAPIEventOdds, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", market)
	params.Set("oddsFormat", "american")

	u := fmt.Sprintf("%s/v4/sports/%s/events/%s/odds?%s", c.baseURL, c.sport, eventID, params.Encode())

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		metrics.RecordOddsAPIRequest("event_odds", "failure", time.Since(start).Seconds())
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeNetworkError, "failed to fetch event odds", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		metrics.RecordOddsAPIRequest("event_odds", requestStatus(resp.StatusCode), time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordOddsAPIRequest("event_odds", "success", time.Since(start).Seconds())

	var payload oddsAPIEventOdds
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse odds response", err)
	}
	return &payload, nil
}

// requestStatus maps a response code to a metrics status label
func requestStatus(code int) string {
	if code == http.StatusTooManyRequests {
		return "rate_limited"
	}
	return "failure"
}

// checkStatus maps non-200 responses to data source errors
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(oddsAPISourceName, ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(oddsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	default:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(oddsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
}

// flattenEventQuotes pivots the per-outcome payload into one quote per
// (bookmaker, player, line) with both sides attached
func flattenEventQuotes(payload *oddsAPIEventOdds, market string, category models.StatCategory, fetchedAt time.Time) []models.MarketQuote {
	type pivotKey struct {
		book   string
		player string
		line   float64
	}
	assembled := make(map[pivotKey]*models.MarketQuote)
	var order []pivotKey

	for _, book := range payload.Bookmakers {
		for _, m := range book.Markets {
			if m.Key != market {
				continue
			}
			for _, outcome := range m.Outcomes {
				player, side, ok := splitOutcome(outcome)
				if !ok {
					continue
				}
				odds, ok := parseAmericanOdds(outcome.Price)
				if !ok {
					continue
				}

				key := pivotKey{book: book.Key, player: player, line: outcome.Point}
				quote, exists := assembled[key]
				if !exists {
					quote = &models.MarketQuote{
						EventID:      payload.ID,
						CommenceTime: payload.CommenceTime,
						HomeTeam:     payload.HomeTeam,
						AwayTeam:     payload.AwayTeam,
						BookKey:      strings.ToLower(book.Key),
						BookTitle:    book.Title,
						Player:       player,
						Category:     category,
						Line:         outcome.Point,
						FetchedAt:    fetchedAt,
					}
					assembled[key] = quote
					order = append(order, key)
				}

				o := odds
				switch side {
				case models.SideOver:
					quote.OddsOver = &o
				case models.SideUnder:
					quote.OddsUnder = &o
				}
			}
		}
	}

	quotes := make([]models.MarketQuote, 0, len(order))
	for _, key := range order {
		quotes = append(quotes, *assembled[key])
	}
	return quotes
}

// splitOutcome extracts the player name and side from an outcome, tolerating
// payloads where the two fields are swapped
func splitOutcome(outcome oddsAPIOutcome) (player string, side models.Side, ok bool) {
	name := strings.TrimSpace(outcome.Name)
	desc := strings.TrimSpace(outcome.Description)

	if s, isSide := parseSide(name); isSide {
		if desc == "" {
			return "", "", false
		}
		return desc, s, true
	}
	if s, isSide := parseSide(desc); isSide {
		if name == "" {
			return "", "", false
		}
		return name, s, true
	}
	return "", "", false
}

// parseSide recognizes over/under labels case-insensitively
func parseSide(s string) (models.Side, bool) {
	switch strings.ToLower(s) {
	case "over":
		return models.SideOver, true
	case "under":
		return models.SideUnder, true
	default:
		return "", false
	}
}

// parseAmericanOdds converts a JSON price into integer American odds
func parseAmericanOdds(price json.Number) (int, bool) {
	if price == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(price.String())
	if err != nil {
		return 0, false
	}
	odds := int(d.Round(0).IntPart())
	if odds == 0 {
		return 0, false
	}
	return odds, true
}

// sortQuotes orders quotes deterministically
func sortQuotes(quotes []models.MarketQuote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		a, b := quotes[i], quotes[j]
		if !a.CommenceTime.Equal(b.CommenceTime) {
			return a.CommenceTime.Before(b.CommenceTime)
		}
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.BookKey < b.BookKey
	})
}
