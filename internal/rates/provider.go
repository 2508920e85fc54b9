// Package rates fetches, caches and refreshes currency exchange rates.
package rates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/calckit/internal/config"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/currency"
	"go.uber.org/zap"
)

// ErrProvider marks failures of an upstream rate source.
var ErrProvider = errors.New("rate provider failure")

// ProviderError wraps a failure reported by a named provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s rate provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrProvider.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// Provider returns the latest rates quoted against base.
type Provider interface {
	Latest(ctx context.Context, base currency.Code) (currency.Rates, error)
	Name() string
}

// NewProvider builds the provider selected in cfg.
func NewProvider(cfg config.RatesConfig, logger *zap.Logger) (Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 10 * time.Second
	}

	switch cfg.Provider {
	case constants.RateProviderJSON, "":
		return NewJSONProvider(cfg.BaseURL, client, logger), nil
	case constants.RateProviderECB:
		return NewECBProvider(cfg.ECBURL, client, logger), nil
	}
	return nil, fmt.Errorf("unsupported rates provider %q", cfg.Provider)
}
