package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"bankroll/internal/interfaces"
	"bankroll/internal/models"

	"github.com/samber/do"
	tele "gopkg.in/telebot.v3"
)

func getContextContainer(c tele.Context) (*do.Injector, error) {
	contextValue := c.Get(contextContainer)
	if contextValue == nil {
		return nil, fmt.Errorf("container not found")
	}

	result, ok := contextValue.(*do.Injector)
	if !ok {
		return nil, fmt.Errorf("container not valid")
	}

	return result, nil
}

func getContextService[T any](c tele.Context) (T, error) {
	var zero T
	container, err := getContextContainer(c)
	if err != nil {
		return zero, err
	}
	return do.Invoke[T](container)
}

// chatScope is the rain scope of the chat a command came from.
func chatScope(c tele.Context) string {
	return strconv.FormatInt(c.Chat().ID, 10)
}

// trackPresence marks group senders online and members of the group scope.
func trackPresence(c tele.Context) {
	sender := c.Sender()
	if sender == nil || sender.IsBot || sender.ID == models.BANK_ID || c.Chat() == nil {
		return
	}

	presence, err := getContextService[interfaces.PresenceTracker](c)
	if err != nil {
		return
	}

	ctx := context.Background()
	if err := presence.SetActive(ctx, sender.ID, true); err != nil {
		logPresenceError(c, err)
	}
	if c.Chat().Type == tele.ChatPrivate {
		return
	}
	if err := presence.Join(ctx, chatScope(c), sender.ID); err != nil {
		logPresenceError(c, err)
	}
}

func logPresenceError(c tele.Context, err error) {
	logger, lerr := getContextService[*slog.Logger](c)
	if lerr != nil {
		return
	}
	logger.Warn("track presence", "sender_id", c.Sender().ID, "chat_id", c.Chat().ID, "error", err)
}
