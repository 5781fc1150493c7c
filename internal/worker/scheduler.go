// Package worker runs the background jobs: campaign lifecycle transitions
// and payment-intent cleanup.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

const tickInterval = time.Minute

type Scheduler struct {
	sched     gocron.Scheduler
	campaigns *dao.CampaignDAO
	intents   *dao.PaymentDAO
}

func NewScheduler(db *gorm.DB) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	return &Scheduler{
		sched:     sched,
		campaigns: dao.NewCampaignDAO(db),
		intents:   dao.NewPaymentDAO(db),
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(tickInterval),
		gocron.NewTask(s.transitionCampaigns),
	)
	if err != nil {
		return fmt.Errorf("s.sched.NewJob -> %w", err)
	}

	_, err = s.sched.NewJob(
		gocron.DurationJob(tickInterval),
		gocron.NewTask(s.cleanupIntents),
	)
	if err != nil {
		return fmt.Errorf("s.sched.NewJob -> %w", err)
	}

	s.sched.Start()

	return nil
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// transitionCampaigns moves drafts past their start time to active and
// actives past their end time to completed.
func (s *Scheduler) transitionCampaigns() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	due, err := s.campaigns.FindDueForTransition(ctx, now)
	if err != nil {
		zap.L().Error("scheduler: failed to load due campaigns", zap.Error(err))
		return
	}

	for _, c := range due {
		var next string
		switch {
		case c.Status == "draft" && !c.StartTime.After(now):
			next = "active"
		case c.Status == "active" && !c.EndTime.After(now):
			next = "completed"
		default:
			continue
		}

		if err := s.campaigns.UpdateStatus(ctx, c.ID, next); err != nil {
			zap.L().Error("scheduler: campaign transition failed",
				zap.Uint("campaign_id", c.ID),
				zap.String("to", next),
				zap.Error(err))
			continue
		}

		zap.L().Info("scheduler: campaign transitioned",
			zap.Uint("campaign_id", c.ID),
			zap.String("from", c.Status),
			zap.String("to", next))
	}
}

func (s *Scheduler) cleanupIntents() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.intents.DeleteExpired(ctx, time.Now())
	if err != nil {
		zap.L().Error("scheduler: intent cleanup failed", zap.Error(err))
		return
	}

	if deleted > 0 {
		zap.L().Info("scheduler: expired payment intents removed", zap.Int64("count", deleted))
	}
}
