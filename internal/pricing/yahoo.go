package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultYahooBaseURL is the Yahoo Finance v8 chart endpoint.
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUA             = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooChartResponse is the top-level v8 chart response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooSource fetches prices from the Yahoo Finance chart API. Symbols are
// passed through as Yahoo tickers, e.g. RELIANCE.NS.
type YahooSource struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooSource creates a Yahoo Finance price source. An empty baseURL uses
// DefaultYahooBaseURL.
func NewYahooSource(httpClient *http.Client, baseURL string) *YahooSource {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YahooSource{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the source's display name.
func (s *YahooSource) Name() string { return "Yahoo Finance" }

// FetchPrices fetches one chart per symbol. A cancelled context fails the
// symbols not fetched yet.
func (s *YahooSource) FetchPrices(ctx context.Context, symbols []string) ([]Quote, []FetchError) {
	var quotes []Quote
	var fetchErrors []FetchError

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			fetchErrors = append(fetchErrors, FetchError{Symbol: symbol, Err: err})
			continue
		}
		q, err := s.fetchOne(ctx, symbol)
		if err != nil {
			fetchErrors = append(fetchErrors, FetchError{Symbol: symbol, Err: err})
			continue
		}
		quotes = append(quotes, q)
	}

	return quotes, fetchErrors
}

func (s *YahooSource) fetchOne(ctx context.Context, symbol string) (Quote, error) {
	u := s.baseURL + "/" + url.PathEscape(symbol) + "?interval=1d&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Quote{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return Quote{}, fmt.Errorf("decoding response: %w", err)
	}
	if chart.Chart.Error != nil {
		return Quote{}, fmt.Errorf("chart error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("symbol %s not found in response", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return Quote{}, fmt.Errorf("no price for %s", symbol)
	}

	return Quote{
		Symbol:     symbol,
		Price:      decimal.NewFromFloat(meta.RegularMarketPrice).Round(2),
		Currency:   strings.ToUpper(meta.Currency),
		RecordedAt: time.Now().UTC(),
	}, nil
}
