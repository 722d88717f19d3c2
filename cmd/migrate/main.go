package main

import (
	"context"
	"log"
	"os"

	"bankroll/internal/app"
	"bankroll/internal/datastore"
	"bankroll/internal/models"
	"bankroll/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/uptrace/bun"
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

func main() {
	vs, err := env.EnvsRequired(
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	container := app.NewContainer(vs)

	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(container),
			commandGenesis(container),
			commandConfigMigration(container),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create every ledger table",
		Action: func(c *cli.Context) error {
			db, err := do.Invoke[*bun.DB](container)
			if err != nil {
				return err
			}

			if err := datastore.CreateTables(context.Background(), db); err != nil {
				return err
			}

			log.Println("Migration done")
			return nil
		},
	}
}

func commandGenesis(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "genesis",
		Usage: "mint the initial supply into the Bank",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "supply",
				Value: models.GENESIS_SUPPLY,
				Usage: "coins minted into the Bank",
			},
		},
		Action: func(c *cli.Context) error {
			serviceLedger, err := do.Invoke[*services.ServiceLedger](container)
			if err != nil {
				return err
			}

			minted, err := serviceLedger.Genesis(context.Background(), c.Int64("supply"))
			if err != nil {
				return err
			}

			if !minted {
				log.Println("Genesis already ran, nothing minted")
				return nil
			}
			log.Println("Genesis minted", c.Int64("supply"))
			return nil
		},
	}
}

func commandConfigMigration(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "seed-config",
		Usage: "insert default runtime settings that are missing",
		Action: func(c *cli.Context) error {
			serviceConfig, err := do.Invoke[*services.ServiceConfig](container)
			if err != nil {
				return err
			}

			if err := serviceConfig.SeedDefaults(context.Background()); err != nil {
				return err
			}

			log.Println("Config seeded")
			return nil
		},
	}
}
