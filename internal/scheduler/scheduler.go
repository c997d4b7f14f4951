// Package scheduler runs the nightly price sweep: every account's holdings
// are refreshed from the oracle on a cron schedule.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/finledger/holdings-backend/internal/service"
)

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron   *cron.Cron
	prices *service.PriceService
}

// New creates a scheduler around the given price service.
func New(prices *service.PriceService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		prices: prices,
	}
}

// Start registers the price sweep under the given cron spec and starts the
// runner. Per-account failures inside the sweep are logged, not fatal.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Println("Starting scheduled price refresh")
		if err := s.prices.RefreshEveryAccount(context.Background()); err != nil {
			log.Printf("Scheduled price refresh failed: %v", err)
			return
		}
		log.Println("Scheduled price refresh finished")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
