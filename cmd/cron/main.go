package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bankroll/internal/app"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

type CronJob interface {
	Start(cronRunner *cron.Cron) error
}

func main() {
	vs, err := env.EnvsRequired()
	if err != nil {
		log.Fatal(err)
	}

	container := app.NewContainer(vs)

	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(container),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			cronLogger := cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))
			cronRunner := cron.New(
				cron.WithLogger(cronLogger),
				cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
			)

			passiveIncomeJob, err := NewPassiveIncomeJob(container)
			if err != nil {
				return err
			}

			rainSweepJob, err := NewRainSweepJob(container)
			if err != nil {
				return err
			}

			for _, job := range []CronJob{passiveIncomeJob, rainSweepJob} {
				if err := job.Start(cronRunner); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Println("Start cronjob")
			cronRunner.Start()
			<-ctx.Done()
			<-cronRunner.Stop().Done()

			//nolint:errcheck
			container.Shutdown()
			return nil
		},
	}
}
