package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/currency"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// latestResponse covers the two response shapes served by public REST
// providers: a "rates" object or a "conversion_rates" object.
type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	Base            string             `json:"base"`
	BaseCode        string             `json:"base_code"`
	LastUpdateUnix  int64              `json:"time_last_update_unix"`
	Rates           map[string]float64 `json:"rates"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// JSONProvider fetches rates from a REST endpoint at {baseURL}/latest/{base}.
type JSONProvider struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewJSONProvider creates a REST rate provider.
func NewJSONProvider(baseURL string, client *http.Client, logger *zap.Logger) *JSONProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = constants.DefaultRatesBaseURL
	}
	return &JSONProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
}

// Name identifies the provider in logs and rate tables.
func (p *JSONProvider) Name() string { return constants.RateProviderJSON }

// Latest fetches the current rates for base.
func (p *JSONProvider) Latest(ctx context.Context, base currency.Code) (currency.Rates, error) {
	url := p.baseURL + "/latest/" + string(base)
	body, err := fetch(ctx, p.client, url)
	if err != nil {
		return currency.Rates{}, &ProviderError{Provider: p.Name(), Err: err}
	}

	var response latestResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return currency.Rates{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if response.Result == "error" {
		return currency.Rates{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("upstream error: %s", response.ErrorType)}
	}

	quotes := response.Rates
	if len(quotes) == 0 {
		quotes = response.ConversionRates
	}

	rates := currency.Rates{
		Base:      base,
		Rates:     make(map[currency.Code]float64, len(quotes)),
		Timestamp: p.now().UTC(),
		Provider:  p.Name(),
	}
	if response.LastUpdateUnix > 0 {
		rates.Timestamp = time.Unix(response.LastUpdateUnix, 0).UTC()
	}
	for raw, rate := range quotes {
		code, err := currency.ParseCode(raw)
		if err != nil || code == base {
			continue
		}
		rates.Rates[code] = rate
	}

	if err := rates.Validate(); err != nil {
		return currency.Rates{}, &ProviderError{Provider: p.Name(), Err: err}
	}

	p.logger.Debug("fetched currency rates",
		zap.String("op", "rates.JSONProvider.Latest"),
		zap.String("base", string(base)),
		zap.Int("count", len(rates.Rates)),
	)
	return rates, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
