// Package marketdata implements MarketData over a REST quote provider,
// grounded on the teacher's exchange ticker-fetch pattern (parse decimal
// strings out of a JSON response, one symbol at a time).
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// HTTPClient fetches a single quote per call from a REST market-data
// provider (e.g. a fundamentals/quote API), converting its JSON fields
// into orchestrator.Quote.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logger.Logger
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     logger.Get().With("component", "market_data"),
	}
}

var _ orchestrator.MarketData = (*HTTPClient)(nil)

type quoteResponse struct {
	Symbol     string `json:"symbol"`
	Price      string `json:"price"`
	ChangePct  string `json:"change_percent"`
	Volume     string `json:"volume"`
	PER        string `json:"pe_ratio"`
	PBR        string `json:"pb_ratio"`
	ROE        string `json:"roe"`
	MarketCap  string `json:"market_cap"`
	Sector     string `json:"sector"`
	AsOfMillis int64  `json:"as_of"`
}

// Quote fetches a current snapshot for symbol, satisfying
// orchestrator.MarketData.
func (c *HTTPClient) Quote(ctx context.Context, symbol string) (*orchestrator.Quote, error) {
	endpoint := fmt.Sprintf("%s/v1/quote?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build market data request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransientExternal, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransientExternal, err.Error())
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrap(errors.ErrSymbolNotFound, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrPermanentExternal, "market data API error (%d): %s", resp.StatusCode, string(body))
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, errors.Wrap(errors.ErrPermanentExternal, "unmarshal market data response: "+err.Error())
	}

	quote := &orchestrator.Quote{
		Symbol:    qr.Symbol,
		Price:     parseDecimal(qr.Price),
		ChangePct: parseDecimal(qr.ChangePct),
		Volume:    parseDecimal(qr.Volume),
		PER:       parseDecimal(qr.PER),
		PBR:       parseDecimal(qr.PBR),
		ROE:       parseDecimal(qr.ROE),
		MarketCap: parseDecimal(qr.MarketCap),
		Sector:    qr.Sector,
	}
	if qr.AsOfMillis > 0 {
		quote.AsOf = time.UnixMilli(qr.AsOfMillis)
	} else {
		quote.AsOf = time.Now()
	}

	c.log.Debugf("fetched quote: symbol=%s price=%s", quote.Symbol, quote.Price.String())
	return quote, nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
