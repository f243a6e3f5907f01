package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"currency-exchange-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const defaultBaseURL = "https://api.nbp.pl/api/exchangerates"

// Sentinel errors for the reference-rate feed.
var (
	ErrRateNotFound = errors.New("rate not found")
	ErrFeedFailure  = errors.New("rate feed failure")
)

// Table is a full daily snapshot of the feed's reference table.
type Table struct {
	Table         string
	No            string
	EffectiveDate string
	Rates         []models.Rate
}

// Client consumes the NBP exchange-rate feed. Rates are fetched fresh per
// call; nothing is cached.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg models.RatesConfig) (*Client, error) {
	httpClient, err := createHttpClient(cfg.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create http client: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

func createHttpClient(timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// ratePayload matches the per-currency NBP response shape. Table A carries
// mid rates; table C carries bid/ask.
type ratePayload struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string          `json:"no"`
		EffectiveDate string          `json:"effectiveDate"`
		Mid           decimal.Decimal `json:"mid"`
		Bid           decimal.Decimal `json:"bid"`
		Ask           decimal.Decimal `json:"ask"`
	} `json:"rates"`
}

type tablePayload struct {
	Table         string `json:"table"`
	No            string `json:"no"`
	EffectiveDate string `json:"effectiveDate"`
	Rates         []struct {
		Currency string          `json:"currency"`
		Code     string          `json:"code"`
		Mid      decimal.Decimal `json:"mid"`
	} `json:"rates"`
}

// Current fetches the table-A mid rate for a currency code. This is the
// path trade settlement uses.
func (c *Client) Current(ctx context.Context, code string) (models.Rate, error) {
	return c.fetchRate(ctx, "a", code)
}

// Detailed fetches a currency's rate from table A, falling back to table C
// (bid/ask) for currencies not quoted on table A.
func (c *Client) Detailed(ctx context.Context, code string) (models.Rate, error) {
	rate, err := c.fetchRate(ctx, "a", code)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, ErrRateNotFound) {
		return models.Rate{}, err
	}
	return c.fetchRate(ctx, "c", code)
}

func (c *Client) fetchRate(ctx context.Context, table, code string) (models.Rate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return models.Rate{}, ErrRateNotFound
	}

	url := fmt.Sprintf("%s/rates/%s/%s/?format=json", c.baseURL, table, code)

	var payload ratePayload
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return models.Rate{}, err
	}
	if len(payload.Rates) == 0 {
		return models.Rate{}, fmt.Errorf("%w: %s has no quotes", ErrRateNotFound, code)
	}

	quote := payload.Rates[0]
	return models.Rate{
		Code:          payload.Code,
		Currency:      payload.Currency,
		Mid:           quote.Mid,
		Bid:           quote.Bid,
		Ask:           quote.Ask,
		EffectiveDate: quote.EffectiveDate,
	}, nil
}

// CurrentTable fetches the full table-A snapshot.
func (c *Client) CurrentTable(ctx context.Context) (*Table, error) {
	url := fmt.Sprintf("%s/tables/a/?format=json", c.baseURL)

	var payload []tablePayload
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty table response", ErrFeedFailure)
	}

	snapshot := payload[0]
	table := &Table{
		Table:         snapshot.Table,
		No:            snapshot.No,
		EffectiveDate: snapshot.EffectiveDate,
		Rates:         make([]models.Rate, len(snapshot.Rates)),
	}
	for i, rate := range snapshot.Rates {
		table.Rates[i] = models.Rate{
			Code:          rate.Code,
			Currency:      rate.Currency,
			Mid:           rate.Mid,
			EffectiveDate: snapshot.EffectiveDate,
		}
	}
	return table, nil
}

// Historical fetches the last N table-A quotes for a currency, oldest first.
func (c *Client) Historical(ctx context.Context, code string, lastN int) ([]models.Rate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrRateNotFound
	}
	if lastN <= 0 {
		lastN = 10
	}

	url := fmt.Sprintf("%s/rates/a/%s/last/%d/?format=json", c.baseURL, code, lastN)

	var payload ratePayload
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	rates := make([]models.Rate, len(payload.Rates))
	for i, quote := range payload.Rates {
		rates[i] = models.Rate{
			Code:          payload.Code,
			Currency:      payload.Currency,
			Mid:           quote.Mid,
			EffectiveDate: quote.EffectiveDate,
		}
	}
	return rates, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFeedFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("Rate feed request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFeedFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrRateNotFound
	}
	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("Rate feed returned non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: http %d", ErrFeedFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", ErrFeedFailure, err)
	}
	return nil
}
