package handler

import (
	"context"

	"bankroll/internal/models"
	"bankroll/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupCasino struct {
	container *do.Injector
}

type wagerPayload struct {
	Bet int64 `json:"bet"`
}

func (gr *groupCasino) Coinflip(c echo.Context) error {
	return gr.play(c, func(ctx context.Context, casino *services.ServiceCasino, playerID, bet int64) (*models.WagerResult, error) {
		return casino.Coinflip(ctx, playerID, bet)
	})
}

func (gr *groupCasino) Slots(c echo.Context) error {
	return gr.play(c, func(ctx context.Context, casino *services.ServiceCasino, playerID, bet int64) (*models.WagerResult, error) {
		return casino.Slots(ctx, playerID, bet)
	})
}

func (gr *groupCasino) play(c echo.Context, game func(context.Context, *services.ServiceCasino, int64, int64) (*models.WagerResult, error)) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload wagerPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceCasino, err := do.Invoke[*services.ServiceCasino](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := game(ctx, serviceCasino, user.ID, payload.Bet)
	return httpx.RestAbort(c, result, err)
}
