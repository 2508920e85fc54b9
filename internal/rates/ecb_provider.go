package rates

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/currency"
	"go.uber.org/zap"
)

// ecbBase is the currency the ECB quotes every rate against.
const ecbBase currency.Code = "EUR"

// ECBProvider reads the European Central Bank daily reference rates and
// rebases them onto the requested currency.
type ECBProvider struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewECBProvider creates an ECB reference rate provider.
func NewECBProvider(url string, client *http.Client, logger *zap.Logger) *ECBProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = constants.DefaultECBURL
	}
	return &ECBProvider{url: url, client: client, logger: logger}
}

// Name identifies the provider in logs and rate tables.
func (p *ECBProvider) Name() string { return constants.RateProviderECB }

// Latest fetches the daily reference rates and quotes them against base.
func (p *ECBProvider) Latest(ctx context.Context, base currency.Code) (currency.Rates, error) {
	body, err := fetch(ctx, p.client, p.url)
	if err != nil {
		return currency.Rates{}, &ProviderError{Provider: p.Name(), Err: err}
	}

	rates, err := parseECB(body)
	if err != nil {
		return currency.Rates{}, &ProviderError{Provider: p.Name(), Err: err}
	}
	rates.Provider = p.Name()

	rebased, err := rates.Rebase(base)
	if err != nil {
		return currency.Rates{}, err
	}

	p.logger.Debug("fetched ECB reference rates",
		zap.String("op", "rates.ECBProvider.Latest"),
		zap.String("base", string(base)),
		zap.Time("date", rates.Timestamp),
		zap.Int("count", len(rebased.Rates)),
	)
	return rebased, nil
}

// parseECB extracts the EUR-based rate table from the ECB daily XML feed.
func parseECB(body []byte) (currency.Rates, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return currency.Rates{}, fmt.Errorf("failed to parse XML: %w", err)
	}

	rates := currency.Rates{
		Base:  ecbBase,
		Rates: make(map[currency.Code]float64),
	}

	if dated := doc.FindElement("//Cube[@time]"); dated != nil {
		day, err := time.Parse(constants.DateLayout, dated.SelectAttrValue("time", ""))
		if err != nil {
			return currency.Rates{}, fmt.Errorf("failed to parse rate date: %w", err)
		}
		rates.Timestamp = day
	}

	for _, cube := range doc.FindElements("//Cube[@currency]") {
		code, err := currency.ParseCode(cube.SelectAttrValue("currency", ""))
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(cube.SelectAttrValue("rate", ""), 64)
		if err != nil {
			return currency.Rates{}, fmt.Errorf("failed to parse rate for %s: %w", code, err)
		}
		rates.Rates[code] = rate
	}

	if len(rates.Rates) == 0 {
		return currency.Rates{}, fmt.Errorf("no rate data found in XML")
	}
	if err := rates.Validate(); err != nil {
		return currency.Rates{}, err
	}
	return rates, nil
}
