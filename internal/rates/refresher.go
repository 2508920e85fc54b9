package rates

import (
	"context"
	"fmt"

	"github.com/iwvelando/calckit/pkg/currency"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher periodically pre-warms the rate cache for a set of base currencies.
type Refresher struct {
	service *Service
	bases   []currency.Code
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewRefresher schedules a refresh of bases on the cron schedule.
func NewRefresher(service *Service, schedule string, bases []currency.Code, logger *zap.Logger) (*Refresher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Refresher{
		service: service,
		bases:   bases,
		cron:    cron.New(),
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(schedule, func() { r.RefreshNow(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins the schedule in the background.
func (r *Refresher) Start() {
	r.logger.Info("starting currency rate refresher",
		zap.String("op", "rates.Refresher.Start"),
		zap.Int("bases", len(r.bases)),
	)
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish or ctx to end.
func (r *Refresher) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RefreshNow refreshes every base once and returns how many succeeded.
func (r *Refresher) RefreshNow(ctx context.Context) int {
	refreshed := 0
	for _, base := range r.bases {
		if _, err := r.service.Refresh(ctx, base); err != nil {
			r.logger.Warn("failed to refresh currency rates",
				zap.String("op", "rates.Refresher.RefreshNow"),
				zap.String("base", string(base)),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}
	r.logger.Debug(fmt.Sprintf("refreshed %d of %d currency bases", refreshed, len(r.bases)),
		zap.String("op", "rates.Refresher.RefreshNow"),
	)
	return refreshed
}
