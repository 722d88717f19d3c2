package handler

import (
	"net/http"

	"bankroll/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
	AdminKey  string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🏦")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		bot, err := do.Invoke[*services.Bot](cfg.Container)
		if err != nil {
			return nil, err
		}
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		// login with mini app init data, everything else uses the issued session
		routesAPIv1Login := routesAPIv1.Group("/login")
		routesAPIv1Login.Use(Authn(bot))
		{
			a := groupAccount{cfg.Container}
			routesAPIv1Login.POST("", a.Login)
		}

		b := groupBank{cfg.Container}
		routesAPIv1.GET("/bank/reserve", b.Reserve)
		routesAPIv1.GET("/leaderboard", b.Leaderboard)

		s := groupShop{cfg.Container}
		routesAPIv1.GET("/shop", s.Catalog)

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		routesAPIv1Me := routesAPIv1.Group("/me")
		{
			a := groupAccount{cfg.Container}
			routesAPIv1Me.GET("", a.Profile)
			routesAPIv1Me.GET("/balance", a.Balance)
			routesAPIv1Me.GET("/transactions", a.Transactions)
			routesAPIv1Me.POST("/pay", a.Pay)
		}

		routesAPIv1Casino := routesAPIv1.Group("/casino")
		{
			g := groupCasino{cfg.Container}
			routesAPIv1Casino.POST("/coinflip", g.Coinflip)
			routesAPIv1Casino.POST("/slots", g.Slots)
		}

		rain := groupRain{cfg.Container}
		routesAPIv1.POST("/rain", rain.Request)

		routesAPIv1.POST("/shop/buy/:item", s.Buy)
	}

	routesAdmin := r.Group("/admin")
	routesAdmin.Use(AuthnAdmin(cfg.AdminKey))
	{
		a := groupAdmin{cfg.Container}
		routesAdmin.POST("/grant", a.Grant)
		routesAdmin.POST("/xp", a.GiveXP)
		routesAdmin.POST("/airdrop", a.Airdrop)
		routesAdmin.POST("/genesis", a.Genesis)
		routesAdmin.GET("/audit", a.Audit)
		routesAdmin.POST("/presence/active", a.SetActive)
		routesAdmin.POST("/presence/scope/:scope", a.JoinScope)
		routesAdmin.DELETE("/presence/scope/:scope", a.LeaveScope)
		routesAdmin.POST("/passive-income", a.RunPassiveIncome)
		routesAdmin.POST("/rain/sweep", a.SweepRain)
	}

	return r, nil
}
