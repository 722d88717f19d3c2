package main

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"bankroll/internal/datastore/redis_store"
	"bankroll/internal/models"
	"bankroll/internal/services"

	"github.com/samber/do"
	tele "gopkg.in/telebot.v3"
)

const RELAY_POP_TIMEOUT = 5 * time.Second

// EventRelay forwards economy events from the queue into chats.
type EventRelay struct {
	queue  *redis_store.EventQueue
	bot    *tele.Bot
	logger *slog.Logger
}

func NewEventRelay(container *do.Injector, bot *tele.Bot) (*EventRelay, error) {
	queue, err := do.Invoke[*redis_store.EventQueue](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*slog.Logger](container)
	if err != nil {
		return nil, err
	}

	return &EventRelay{queue, bot, logger}, nil
}

func (r *EventRelay) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		event, err := r.queue.Pop(ctx, RELAY_POP_TIMEOUT)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Warn("pop event", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if event == nil {
			continue
		}

		r.deliver(event)
	}
}

func (r *EventRelay) deliver(event *models.Event) {
	text := services.FormatEvent(event)
	if text == "" {
		return
	}

	chatID := event.AccountID
	if event.Type == models.EventRainExecuted && event.Rain != nil {
		scope, err := strconv.ParseInt(event.Rain.Scope, 10, 64)
		if err == nil {
			chatID = scope
		}
	}

	_, err := r.bot.Send(&tele.Chat{ID: chatID}, text, &tele.SendOptions{ParseMode: tele.ModeHTML})
	if err != nil {
		r.logger.Warn("relay event", "type", event.Type, "chat_id", chatID, "error", err)
	}
}
