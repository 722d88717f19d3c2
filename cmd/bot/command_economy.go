package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"
	"bankroll/internal/services"

	tele "gopkg.in/telebot.v3"
)

var sendHTML = &tele.SendOptions{ParseMode: tele.ModeHTML}

func replyError(c tele.Context, err error) error {
	return c.Send(fmt.Sprintf("⚠️ %s", err.Error()))
}

func parseAmount(c tele.Context, index int) (int64, bool) {
	args := c.Args()
	if len(args) <= index {
		return 0, false
	}
	amount, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func commandBalance(c tele.Context) error {
	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	balance, err := serviceLedger.Balance(context.Background(), c.Sender().ID)
	if err != nil {
		return replyError(c, err)
	}

	return c.Send(fmt.Sprintf("💰 %d coins", balance))
}

func commandProfile(c tele.Context) error {
	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	profile, err := serviceLedger.Profile(context.Background(), c.Sender().ID)
	if err != nil {
		return replyError(c, err)
	}

	return c.Send(services.FormatProfile(profile), sendHTML)
}

func commandHistory(c tele.Context) error {
	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	transactions, err := serviceLedger.Transactions(context.Background(), c.Sender().ID)
	if err != nil {
		return replyError(c, err)
	}
	if len(transactions) == 0 {
		return c.Send("No transactions yet.")
	}

	var sb strings.Builder
	for _, t := range transactions {
		sign := "+"
		if t.FromID == c.Sender().ID {
			sign = "-"
		}
		fmt.Fprintf(&sb, "%s %s%d %s\n", t.CreatedAt.Format(time.DateTime), sign, t.Amount, t.Kind)
	}
	return c.Send(sb.String())
}

func commandPay(c tele.Context) error {
	var to int64
	amountIndex := 0
	if reply := c.Message().ReplyTo; reply != nil && reply.Sender != nil {
		to = reply.Sender.ID
	} else {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Reply to someone with /pay <amount> or use /pay <id> <amount>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Invalid recipient")
		}
		to = id
		amountIndex = 1
	}

	amount, ok := parseAmount(c, amountIndex)
	if !ok {
		return c.Send("Invalid amount")
	}

	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	result, err := serviceLedger.Pay(context.Background(), c.Sender().ID, to, amount)
	if err != nil {
		return replyError(c, err)
	}

	switch result.Outcome {
	case models.OutcomePaid:
		if result.Tax > 0 {
			return c.Send(fmt.Sprintf("💸 Sent %d coins to <code>%d</code> (%d tax).", result.Net, to, result.Tax), sendHTML)
		}
		return c.Send(fmt.Sprintf("💸 Sent %d coins to <code>%d</code>.", result.Net, to), sendHTML)
	case models.OutcomeInsufficientFunds:
		return c.Send("💸 Not enough coins.")
	default:
		return c.Send("🏦 The Bank could not settle this payment.")
	}
}

func commandCoinflip(c tele.Context) error {
	return playWager(c, func(ctx context.Context, casino *services.ServiceCasino, bet int64) (*models.WagerResult, error) {
		return casino.Coinflip(ctx, c.Sender().ID, bet)
	})
}

func commandSlots(c tele.Context) error {
	return playWager(c, func(ctx context.Context, casino *services.ServiceCasino, bet int64) (*models.WagerResult, error) {
		return casino.Slots(ctx, c.Sender().ID, bet)
	})
}

func playWager(c tele.Context, game func(context.Context, *services.ServiceCasino, int64) (*models.WagerResult, error)) error {
	bet, ok := parseAmount(c, 0)
	if !ok {
		return c.Send("Usage: /coinflip <bet> or /slots <bet>")
	}

	serviceCasino, err := getContextService[*services.ServiceCasino](c)
	if err != nil {
		return err
	}

	result, err := game(context.Background(), serviceCasino, bet)
	if err != nil {
		return replyError(c, err)
	}

	return c.Send(services.FormatWager(result))
}

func commandRain(c tele.Context) error {
	if c.Chat().Type == tele.ChatPrivate {
		return c.Send("Rain only works in group chats.")
	}

	amount, ok := parseAmount(c, 0)
	if !ok {
		return c.Send("Usage: /rain <120|480|980|4800> [0|5|10|15]")
	}

	var delay time.Duration
	if args := c.Args(); len(args) > 1 {
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return c.Send("Invalid delay")
		}
		delay = time.Duration(minutes) * time.Minute
	}

	serviceRain, err := getContextService[*services.ServiceRain](c)
	if err != nil {
		return err
	}

	result, err := serviceRain.RequestDistribution(context.Background(), c.Sender().ID, amount, delay, chatScope(c))
	if err != nil {
		return replyError(c, err)
	}

	return c.Send(services.FormatDistribution(result), sendHTML)
}

func commandShop(c tele.Context) error {
	serviceShop, err := getContextService[*services.ServiceShop](c)
	if err != nil {
		return err
	}

	catalog, err := serviceShop.Catalog(context.Background())
	if err != nil {
		return replyError(c, err)
	}

	var sb strings.Builder
	for _, category := range catalog {
		fmt.Fprintf(&sb, "<b>%s</b>\n", category.Category)
		for _, item := range category.Items {
			fmt.Fprintf(&sb, "%s - %d (<code>%s</code>)\n", item.Name, item.Price, item.Key)
		}
		sb.WriteString("\n")
	}
	return c.Send(sb.String(), sendHTML)
}

func commandBuy(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Send("Usage: /buy <item>")
	}

	serviceShop, err := getContextService[*services.ServiceShop](c)
	if err != nil {
		return err
	}

	result, err := serviceShop.Purchase(context.Background(), c.Sender().ID, args[0])
	if err != nil {
		return replyError(c, err)
	}

	switch result.Outcome {
	case models.OutcomePurchased:
		return c.Send(fmt.Sprintf("🛍️ You bought %s for %d coins.", result.Item.Name, result.Item.Price))
	case models.OutcomeAlreadyOwned:
		return c.Send(fmt.Sprintf("You already own %s.", result.Item.Name))
	default:
		return c.Send("💸 Not enough coins.")
	}
}

func commandBank(c tele.Context) error {
	serviceSolvency, err := getContextService[*services.ServiceSolvency](c)
	if err != nil {
		return err
	}

	reserve, err := serviceSolvency.Reserve(context.Background())
	if err != nil {
		return replyError(c, err)
	}

	return c.Send(services.FormatReserve(reserve))
}

func commandTop(c tele.Context) error {
	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	items, err := serviceLedger.Leaderboard(context.Background(), services.LEADERBOARD_DEFAULT_LIMIT)
	if err != nil {
		return replyError(c, err)
	}
	if len(items) == 0 {
		return c.Send("Nobody has coins yet.")
	}

	var sb strings.Builder
	sb.WriteString("🏆 <b>Richest accounts</b>\n")
	for i, item := range items {
		fmt.Fprintf(&sb, "\n%d. <code>%d</code> %d coins (level %d)", i+1, item.AccountID, item.Balance, item.Level)
	}
	return c.Send(sb.String(), sendHTML)
}

// commandAway is handled after the presence middleware marked the sender
// online, so it has to undo that.
func commandAway(c tele.Context) error {
	presence, err := getContextService[interfaces.PresenceTracker](c)
	if err != nil {
		return err
	}

	if err := presence.SetActive(context.Background(), c.Sender().ID, false); err != nil {
		return replyError(c, err)
	}
	return c.Send("💤 See you later.")
}
