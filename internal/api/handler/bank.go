package handler

import (
	"strconv"

	"bankroll/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBank struct {
	container *do.Injector
}

func (gr *groupBank) Reserve(c echo.Context) error {
	serviceSolvency, err := do.Invoke[*services.ServiceSolvency](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	reserve, err := serviceSolvency.Reserve(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"reserve":       reserve,
		"ratio_percent": reserve.RatioPercent(),
	}, nil)
}

func (gr *groupBank) Leaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit, err := serviceConfig.GetIntConfig(ctx, services.CONFIG_LEADERBOARD_LIMIT, services.LEADERBOARD_DEFAULT_LIMIT)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > limit {
			return httpx.RestAbort(c, nil, errorx.Wrap(services.ErrInvalidAmount, errorx.Validation))
		}
		limit = n
	}

	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	items, err := serviceLedger.Leaderboard(ctx, limit)
	return httpx.RestAbort(c, items, err)
}
