package background

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/lunamarket/settlement-service/internal/config"
	payoutusecase "github.com/lunamarket/settlement-service/internal/usecase/payout"
)

// Scheduler owns the recurring settlement jobs: the payout batch and the
// stale-claim sweep.
type Scheduler struct {
	scheduler     gocron.Scheduler
	payoutUsecase payoutusecase.PayoutUsecase
	workerCfg     config.PayoutWorker
}

func NewScheduler(payoutUsecase payoutusecase.PayoutUsecase, workerCfg config.PayoutWorker) *Scheduler {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}

	return &Scheduler{
		scheduler:     s,
		payoutUsecase: payoutUsecase,
		workerCfg:     workerCfg,
	}
}

func (s *Scheduler) Start() {
	s.registerPayoutBatchJob()
	s.registerStaleSweepJob()
	s.scheduler.Start()
	slog.Info("background scheduler started",
		"payout_interval", s.workerCfg.Interval.String(),
		"sweep_interval", s.workerCfg.SweepInterval.String())
}

func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Error("failed to shutdown scheduler", "error", err.Error())
	}
}

func (s *Scheduler) registerPayoutBatchJob() {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.workerCfg.Interval),
		gocron.NewTask(s.runPayoutBatch),
		gocron.WithName("payout_batch"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatalf("failed to register payout batch job: %v", err)
	}
}

func (s *Scheduler) registerStaleSweepJob() {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.workerCfg.SweepInterval),
		gocron.NewTask(s.runStaleSweep),
		gocron.WithName("payout_stale_sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatalf("failed to register stale sweep job: %v", err)
	}
}

func (s *Scheduler) runPayoutBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), s.workerCfg.Interval)
	defer cancel()

	result, err := s.payoutUsecase.RunBatch(ctx, time.Now(), s.workerCfg.BatchLimit)
	if err != nil {
		slog.Error("payout batch failed", "error", err.Error())
		return
	}
	if result.Total > 0 {
		slog.Info("payout batch finished",
			"processed", result.Processed,
			"failed", result.Failed,
			"total", result.Total)
	}
}

func (s *Scheduler) runStaleSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.workerCfg.SweepInterval)
	defer cancel()

	requeued, err := s.payoutUsecase.RequeueStale(ctx, time.Now())
	if err != nil {
		slog.Error("stale payout sweep failed", "error", err.Error())
		return
	}
	if requeued > 0 {
		slog.Info("stale payouts returned to queue", "count", requeued)
	}
}
