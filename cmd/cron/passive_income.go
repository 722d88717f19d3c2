package main

import (
	"context"
	"log/slog"

	"bankroll/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
)

// PassiveIncomeJob pays every online member once per tick.
type PassiveIncomeJob struct {
	logger          *slog.Logger
	serviceConfig   *services.ServiceConfig
	serviceSolvency *services.ServiceSolvency
}

func NewPassiveIncomeJob(container *do.Injector) (*PassiveIncomeJob, error) {
	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceSolvency, err := do.Invoke[*services.ServiceSolvency](container)
	if err != nil {
		return nil, err
	}

	return &PassiveIncomeJob{logger, serviceConfig, serviceSolvency}, nil
}

func (j *PassiveIncomeJob) Start(cronRunner *cron.Cron) error {
	timeline, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_PASSIVE_INCOME, services.DEFAULT_CRON_PASSIVE_INCOME)
	if err != nil {
		j.logger.Warn("passive income schedule fallback", "error", err)
	}

	_, err = cronRunner.AddFunc(timeline, j.runScheduledTask)
	if err != nil {
		return err
	}

	j.logger.Info("passive income cronjob scheduled", "cron", timeline)
	return nil
}

func (j *PassiveIncomeJob) runScheduledTask() {
	report, err := j.serviceSolvency.RunPassiveIncome(context.Background())
	if err != nil {
		j.logger.Error("passive income tick", "error", err)
		return
	}

	j.logger.Info("passive income tick done", "status", report.Solvency.Status, "active", report.Active, "paid", report.Paid, "total", report.Total)
}
