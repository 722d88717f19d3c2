package handler

import (
	"time"

	"bankroll/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupRain struct {
	container *do.Injector
}

func (gr *groupRain) Request(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload struct {
		Amount       int64  `json:"amount"`
		DelayMinutes int    `json:"delay_minutes"`
		Scope        string `json:"scope"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceRain, err := do.Invoke[*services.ServiceRain](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	delay := time.Duration(payload.DelayMinutes) * time.Minute
	result, err := serviceRain.RequestDistribution(ctx, user.ID, payload.Amount, delay, payload.Scope)
	return httpx.RestAbort(c, result, err)
}
