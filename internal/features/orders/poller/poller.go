package poller

import (
	"context"
	"time"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/orders/service"

	"go.uber.org/zap"
)

// Poller periodically re-evaluates in-flight orders so time-based status
// progression happens without waiting for a client to poll. It is the only
// spontaneous driver of transitions; the engine itself never ticks.
type Poller struct {
	service  *service.OrderService
	interval time.Duration
}

// New creates a Poller advancing orders every interval.
func New(s *service.OrderService, interval time.Duration) *Poller {
	return &Poller{
		service:  s,
		interval: interval,
	}
}

// Run blocks, re-evaluating active orders on every tick until the context
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	logger.Get().Info("Order poller started",
		zap.Duration("interval", p.interval),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Get().Info("Order poller stopped")
			return
		case <-ticker.C:
			advanced, err := p.service.AdvanceActive(ctx)
			if err != nil {
				logger.Get().Warn("Order poll failed", zap.Error(err))
				continue
			}
			if advanced > 0 {
				logger.Get().Debug("Orders advanced", zap.Int("count", advanced))
			}
		}
	}
}
