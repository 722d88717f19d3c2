package services

import (
	"fmt"
	"strings"
	"time"

	"bankroll/internal/models"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

const INIT_DATA_EXPIRY = 24 * time.Hour

type Bot struct {
	token string
}

func NewBot(token string) (*Bot, error) {
	return &Bot{token}, nil
}

// ValidateInitData checks the mini app launch signature and returns the user
// it was issued for.
func (bot *Bot) ValidateInitData(dataStr string) (*models.UserFromAuth, error) {
	if err := initdata.Validate(dataStr, bot.token, INIT_DATA_EXPIRY); err != nil {
		return nil, err
	}

	data, err := initdata.Parse(dataStr)
	if err != nil {
		return nil, err
	}

	return &models.UserFromAuth{
		ID:        data.User.ID,
		Username:  data.User.Username,
		FirstName: data.User.FirstName,
		LastName:  data.User.LastName,
		IsBot:     data.User.IsBot,
	}, nil
}

func (bot *Bot) Authenticate(token string) (*models.UserFromAuth, error) {
	return bot.ValidateInitData(token)
}

func FormatEvent(event *models.Event) string {
	switch event.Type {
	case models.EventLevelUp:
		return fmt.Sprintf("🎉 <code>%d</code> reached level %d!", event.AccountID, event.Level)
	case models.EventRainExecuted:
		if event.Rain == nil {
			return ""
		}
		return FormatDistribution(event.Rain)
	}
	return ""
}

func FormatDistribution(result *models.DistributionResult) string {
	switch result.Outcome {
	case models.OutcomeInsufficientFunds:
		return "💸 Not enough coins for that rain."
	case models.OutcomeScheduled:
		return fmt.Sprintf("⏳ Rain of %d coins scheduled for %s.", result.Amount, result.DueTime.Format(time.Kitchen))
	case models.OutcomeRefunded:
		return fmt.Sprintf("☂️ Nobody was around. %d coins went back to <code>%d</code>.", result.Amount, result.SenderID)
	case models.OutcomeBankInsolvent:
		return "🏦 The Bank could not settle this rain."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🌧️ <code>%d</code> made it rain %d coins!\n", result.SenderID, result.Amount)
	for _, share := range result.Shares {
		if share.Amount == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n<code>%d</code> +%d", share.AccountID, share.Amount)
	}
	return sb.String()
}

func FormatWager(result *models.WagerResult) string {
	var sb strings.Builder
	if len(result.Symbols) > 0 {
		sb.WriteString(strings.Join(result.Symbols, " "))
		sb.WriteString("\n")
	}

	switch result.Outcome {
	case models.OutcomeWon:
		fmt.Fprintf(&sb, "🤑 You won %d coins!", result.Payout)
	case models.OutcomeLost:
		fmt.Fprintf(&sb, "😿 You lost %d coins.", result.Bet)
	case models.OutcomeInsufficientFunds:
		sb.WriteString("💸 Not enough coins.")
	case models.OutcomeTableLimitExceeded:
		fmt.Fprintf(&sb, "🚫 Table limit is %d coins.", result.TableLimit)
	case models.OutcomeBankInsolvent:
		sb.WriteString("🏦 You won but the Bank cannot pay out right now.")
	}
	return sb.String()
}

func FormatProfile(profile *models.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 <code>%d</code>\n💰 %d coins\n⭐ Level %d (%d XP)\n%s",
		profile.Account.ID, profile.Account.Balance, profile.Account.Level, profile.Account.XP, profile.Progress.Bar)

	if len(profile.Badges) > 0 {
		names := make([]string, 0, len(profile.Badges))
		for _, badge := range profile.Badges {
			names = append(names, badge.String())
		}
		fmt.Fprintf(&sb, "\n🏅 %s", strings.Join(names, ", "))
	}

	if len(profile.Items) > 0 {
		names := make([]string, 0, len(profile.Items))
		for _, item := range profile.Items {
			names = append(names, item.Name)
		}
		fmt.Fprintf(&sb, "\n🎒 %s", strings.Join(names, ", "))
	}
	return sb.String()
}

func FormatReserve(reserve *models.Reserve) string {
	return fmt.Sprintf("🏦 Reserves: %d / %d (%.1f%%)\n📈 Multiplier: x%.1f\n🚦 Status: %s",
		reserve.Reserves, reserve.GenesisSupply, reserve.RatioPercent(), reserve.Solvency.Multiplier, reserve.Solvency.Status)
}
