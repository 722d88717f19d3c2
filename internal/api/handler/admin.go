package handler

import (
	"bankroll/internal/interfaces"
	"bankroll/internal/models"
	"bankroll/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAdmin struct {
	container *do.Injector
}

type accountAmountPayload struct {
	AccountID int64 `json:"account_id"`
	Amount    int64 `json:"amount"`
}

func (gr *groupAdmin) Grant(c echo.Context) error {
	var payload accountAmountPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	outcome, err := serviceLedger.Grant(c.Request().Context(), payload.AccountID, payload.Amount)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]models.Outcome{"outcome": outcome}, nil)
}

func (gr *groupAdmin) GiveXP(c echo.Context) error {
	var payload accountAmountPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceProgression, err := do.Invoke[*services.ServiceProgression](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	change, err := serviceProgression.AddXP(c.Request().Context(), payload.AccountID, payload.Amount)
	return httpx.RestAbort(c, change, err)
}

func (gr *groupAdmin) Airdrop(c echo.Context) error {
	var payload struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceRain, err := do.Invoke[*services.ServiceRain](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceRain.Airdrop(c.Request().Context(), payload.Amount)
	return httpx.RestAbort(c, result, err)
}

func (gr *groupAdmin) Genesis(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	minted, err := serviceLedger.Genesis(c.Request().Context(), models.GENESIS_SUPPLY)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"minted": minted}, nil)
}

func (gr *groupAdmin) Audit(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	total, balanced, err := serviceLedger.Audit(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"total":    total,
		"balanced": balanced,
	}, nil)
}

type presencePayload struct {
	AccountID int64 `json:"account_id"`
	Active    bool  `json:"active"`
}

func (gr *groupAdmin) SetActive(c echo.Context) error {
	var payload presencePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	presence, err := do.Invoke[interfaces.PresenceTracker](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = presence.SetActive(c.Request().Context(), payload.AccountID, payload.Active)
	return httpx.RestAbort(c, payload, err)
}

func (gr *groupAdmin) JoinScope(c echo.Context) error {
	var payload presencePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	presence, err := do.Invoke[interfaces.PresenceTracker](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = presence.Join(c.Request().Context(), c.Param("scope"), payload.AccountID)
	return httpx.RestAbort(c, payload, err)
}

func (gr *groupAdmin) LeaveScope(c echo.Context) error {
	var payload presencePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	presence, err := do.Invoke[interfaces.PresenceTracker](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = presence.Leave(c.Request().Context(), c.Param("scope"), payload.AccountID)
	return httpx.RestAbort(c, payload, err)
}

func (gr *groupAdmin) RunPassiveIncome(c echo.Context) error {
	serviceSolvency, err := do.Invoke[*services.ServiceSolvency](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	report, err := serviceSolvency.RunPassiveIncome(c.Request().Context())
	return httpx.RestAbort(c, report, err)
}

func (gr *groupAdmin) SweepRain(c echo.Context) error {
	serviceRain, err := do.Invoke[*services.ServiceRain](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	executed, err := serviceRain.Sweep(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]int{"executed": executed}, nil)
}
