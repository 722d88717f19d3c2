package main

import (
	"context"
	"fmt"
	"strconv"

	"bankroll/internal/models"
	"bankroll/internal/services"

	tele "gopkg.in/telebot.v3"
)

func parseAccountAmount(c tele.Context) (int64, int64, bool) {
	args := c.Args()
	if len(args) < 2 {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	amount, ok := parseAmount(c, 1)
	return id, amount, ok
}

func commandGrant(c tele.Context) error {
	if !AuthRequire(c, chatId) {
		return nil
	}

	id, amount, ok := parseAccountAmount(c)
	if !ok {
		return c.Send("Usage: /grant <id> <amount>")
	}

	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	outcome, err := serviceLedger.Grant(context.Background(), id, amount)
	if err != nil {
		return replyError(c, err)
	}
	if outcome != models.OutcomePaid {
		return c.Send("🏦 The Bank cannot cover that grant.")
	}
	return c.Send(fmt.Sprintf("Granted %d coins to %d", amount, id))
}

func commandGiveXP(c tele.Context) error {
	if !AuthRequire(c, chatId) {
		return nil
	}

	id, amount, ok := parseAccountAmount(c)
	if !ok {
		return c.Send("Usage: /givexp <id> <amount>")
	}

	serviceProgression, err := getContextService[*services.ServiceProgression](c)
	if err != nil {
		return err
	}

	change, err := serviceProgression.AddXP(context.Background(), id, amount)
	if err != nil {
		return replyError(c, err)
	}
	return c.Send(fmt.Sprintf("%d now has %d XP (level %d)", id, change.XP, change.Level))
}

func commandAirdrop(c tele.Context) error {
	if !AuthRequire(c, chatId) {
		return nil
	}

	amount, ok := parseAmount(c, 0)
	if !ok {
		return c.Send("Usage: /airdrop <amount>")
	}

	serviceRain, err := getContextService[*services.ServiceRain](c)
	if err != nil {
		return err
	}

	result, err := serviceRain.Airdrop(context.Background(), amount)
	if err != nil {
		return replyError(c, err)
	}
	if result.Outcome != models.OutcomeExecuted {
		return c.Send("🏦 The Bank cannot cover that airdrop.")
	}
	return c.Send(fmt.Sprintf("🪂 Airdropped %d coins each to %d accounts", result.PerAccount, len(result.Recipients)))
}

func commandAudit(c tele.Context) error {
	if !AuthRequire(c, chatId) {
		return nil
	}

	serviceLedger, err := getContextService[*services.ServiceLedger](c)
	if err != nil {
		return err
	}

	total, balanced, err := serviceLedger.Audit(context.Background())
	if err != nil {
		return replyError(c, err)
	}
	if !balanced {
		return c.Send(fmt.Sprintf("❌ Supply drift: %d coins in circulation", total))
	}
	return c.Send(fmt.Sprintf("✅ %d coins, supply intact", total))
}
