package rates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iwvelando/calckit/pkg/currency"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "calckit:rates:"

// Service serves rate tables from cache and falls back to the provider.
type Service struct {
	provider Provider
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService creates a rate service. A nil cache disables caching.
func NewService(provider Provider, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cache: cache, ttl: ttl, logger: logger}
}

// Latest returns the rates for base, from cache when fresh.
func (s *Service) Latest(ctx context.Context, base currency.Code) (currency.Rates, error) {
	if s.cache != nil {
		if rates, ok := s.cached(ctx, base); ok {
			return rates, nil
		}
	}
	return s.Refresh(ctx, base)
}

// Refresh fetches rates for base from the provider and stores them in the cache.
func (s *Service) Refresh(ctx context.Context, base currency.Code) (currency.Rates, error) {
	rates, err := s.provider.Latest(ctx, base)
	if err != nil {
		s.logger.Warn("failed to fetch currency rates",
			zap.String("op", "rates.Service.Refresh"),
			zap.String("provider", s.provider.Name()),
			zap.String("base", string(base)),
			zap.Error(err),
		)
		return currency.Rates{}, err
	}

	if s.cache != nil {
		encoded, err := json.Marshal(rates)
		if err == nil {
			err = s.cache.Set(ctx, cacheKeyPrefix+string(base), string(encoded), s.ttl)
		}
		if err != nil {
			s.logger.Warn("failed to cache currency rates",
				zap.String("op", "rates.Service.Refresh"),
				zap.String("base", string(base)),
				zap.Error(err),
			)
		}
	}
	return rates, nil
}

// Convert converts amount between currencies using the latest rates quoted
// against from.
func (s *Service) Convert(ctx context.Context, amount float64, from, to currency.Code) (float64, currency.Rates, error) {
	rates, err := s.Latest(ctx, from)
	if err != nil {
		return 0, currency.Rates{}, err
	}
	converted, err := rates.Convert(amount, from, to)
	if err != nil {
		return 0, currency.Rates{}, err
	}
	return converted, rates, nil
}

func (s *Service) cached(ctx context.Context, base currency.Code) (currency.Rates, bool) {
	value, ok, err := s.cache.Get(ctx, cacheKeyPrefix+string(base))
	if err != nil {
		s.logger.Warn("currency rate cache unavailable",
			zap.String("op", "rates.Service.Latest"),
			zap.Error(err),
		)
		return currency.Rates{}, false
	}
	if !ok {
		return currency.Rates{}, false
	}

	var rates currency.Rates
	if err := json.Unmarshal([]byte(value), &rates); err != nil {
		s.logger.Warn("discarding undecodable cached rates",
			zap.String("op", "rates.Service.Latest"),
			zap.String("base", string(base)),
			zap.Error(err),
		)
		return currency.Rates{}, false
	}
	s.logger.Debug("serving cached currency rates",
		zap.String("op", "rates.Service.Latest"),
		zap.String("base", string(base)),
	)
	return rates, true
}
