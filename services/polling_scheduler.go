package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/models"
	"github.com/hazlamahedich/shop-sub002/repository"
)

// PollingScheduler drives the polling fallback on a fixed interval across
// every onboarded merchant. The per-merchant lock keeps cycles from
// overlapping even when several scheduler instances run.
type PollingScheduler struct {
	service   *OrderPollingService
	merchants repository.MerchantRepository
	interval  time.Duration
	health    *PollingHealthState
	logger    *zap.Logger
}

func NewPollingScheduler(
	service *OrderPollingService,
	merchants repository.MerchantRepository,
	interval time.Duration,
	health *PollingHealthState,
	logger *zap.Logger,
) *PollingScheduler {
	return &PollingScheduler{
		service:   service,
		merchants: merchants,
		interval:  interval,
		health:    health,
		logger:    logger,
	}
}

// Start blocks until ctx is cancelled, running one polling pass per tick.
// Run it in its own goroutine.
func (s *PollingScheduler) Start(ctx context.Context) {
	s.health.SetRunning(true)
	defer s.health.SetRunning(false)

	s.logger.Info("polling scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("polling scheduler shutting down")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *PollingScheduler) runOnce(ctx context.Context) {
	merchantIDs, err := s.merchants.ListMerchantIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list merchants for polling", zap.Error(err))
		s.health.RecordError()
		return
	}

	results := s.service.PollAllMerchants(ctx, merchantIDs)
	for _, res := range results {
		if res.Status == models.PollingStatusErrorAPI {
			s.logger.Warn("poll cycle failed",
				zap.String("merchant_id", res.MerchantID),
				zap.String("status", res.Status),
			)
		}
	}
}
