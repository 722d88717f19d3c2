package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bankroll/internal/app"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

const (
	contextContainer = "context-container"
)

var chatId []int64

func main() {
	app := &cli.App{
		Name: "bot-telegram",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Action: action,
	}
}

func action(c *cli.Context) error {
	vs, err := env.EnvsRequired(
		"BOT_TOKEN",
	)
	if err != nil {
		return err
	}

	container := app.NewContainer(vs)
	chatId = parseChatIds(vs["ADMIN_CHAT_ID"])

	pref := tele.Settings{
		Token:  vs["BOT_TOKEN"],
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Callback() != nil {
				defer c.Respond()
			}

			c.Set(contextContainer, container)
			trackPresence(c)

			return next(c)
		}
	})

	// static commands
	b.Handle("/start", commandStart)
	b.Handle("/help", commandHelp)

	// economy commands
	b.Handle("/balance", commandBalance)
	b.Handle("/profile", commandProfile)
	b.Handle("/history", commandHistory)
	b.Handle("/pay", commandPay)
	b.Handle("/coinflip", commandCoinflip)
	b.Handle("/slots", commandSlots)
	b.Handle("/rain", commandRain)
	b.Handle("/shop", commandShop)
	b.Handle("/buy", commandBuy)
	b.Handle("/bank", commandBank)
	b.Handle("/top", commandTop)
	b.Handle("/afk", commandAway)

	// admin commands
	b.Handle("/list", commandList)
	b.Handle("/grant", commandGrant)
	b.Handle("/givexp", commandGiveXP)
	b.Handle("/airdrop", commandAirdrop)
	b.Handle("/audit", commandAudit)

	// any other message only counts as activity
	b.Handle(tele.OnText, func(c tele.Context) error { return nil })

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay, err := NewEventRelay(container, b)
	if err != nil {
		return err
	}

	errWg, errCtx := errgroup.WithContext(ctx)

	errWg.Go(func() error {
		log.Println("Bot started")
		b.Start()
		return nil
	})

	errWg.Go(func() error {
		return relay.Run(errCtx)
	})

	errWg.Go(func() error {
		<-errCtx.Done()
		b.Stop()
		return nil
	})

	err = errWg.Wait()
	//nolint:errcheck
	container.Shutdown()
	return err
}

func parseChatIds(value string) []int64 {
	var ids []int64
	for _, v := range strings.Split(value, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func AuthRequire(ctx tele.Context, chatId []int64) bool {
	authorized := false
	for _, id := range chatId {
		if ctx.Chat().ID == id || ctx.Sender().ID == id {
			authorized = true
			break
		}
	}

	if !authorized {
		//nolint:errcheck
		ctx.Send("You are not authorized to use this bot here.")
	}

	return authorized
}
