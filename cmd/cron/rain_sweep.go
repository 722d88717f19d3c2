package main

import (
	"context"
	"log/slog"

	"bankroll/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

// RainSweepJob executes delayed rains once they fall due.
type RainSweepJob struct {
	logger        *slog.Logger
	serviceConfig *services.ServiceConfig
	serviceRain   *services.ServiceRain
}

func NewRainSweepJob(container *do.Injector) (*RainSweepJob, error) {
	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceRain, err := do.Invoke[*services.ServiceRain](container)
	if err != nil {
		return nil, err
	}

	return &RainSweepJob{logger, serviceConfig, serviceRain}, nil
}

func (j *RainSweepJob) Start(cronRunner *cron.Cron) error {
	timeline, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_RAIN_SWEEP, services.DEFAULT_CRON_RAIN_SWEEP)
	if err != nil {
		j.logger.Warn("rain sweep schedule fallback", "error", err)
	}

	_, err = cronRunner.AddFunc(timeline, j.runScheduledTask)
	if err != nil {
		return err
	}

	j.logger.Info("rain sweep cronjob scheduled", "cron", timeline)
	return nil
}

func (j *RainSweepJob) runScheduledTask() {
	ctx := context.Background()

	executed, err := j.serviceRain.Sweep(ctx)
	if err != nil {
		j.logger.Error("rain sweep", "error", err)
		return
	}
	if executed == 0 {
		return
	}

	pending, err := j.serviceRain.PendingCount(ctx)
	if err != nil {
		j.logger.Warn("count pending rains", "error", err)
	}
	j.logger.Info("rain sweep done", "executed", executed, "pending", pending)
}
