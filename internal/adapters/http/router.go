package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Parley/internal/adapters/signal"
	"github.com/dkeye/Parley/internal/app/auth"
	"github.com/dkeye/Parley/internal/app/orch"
	"github.com/dkeye/Parley/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sessionName = "ParleySessions"

func signalOptions(cfg *config.Config) signal.Options {
	return signal.Options{
		ReadLimit:     cfg.ReadLimit,
		PingPeriod:    cfg.PingPeriod,
		PongWait:      cfg.PongWait,
		SendBuffer:    cfg.SendBuffer,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit:     cfg.RateLimit,
		RateInterval:  cfg.RateInterval,
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, accounts *auth.Service) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: int(cfg.TokenTTL.Seconds()), HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	chat := &chatHandlers{orch: o}
	users := &accountHandlers{svc: accounts}
	ws := signal.NewSignalWSController(o, signalOptions(cfg))

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		ws.HandleSignal(ctx, c)
	})
	api.GET("/messages/:room", chat.history)
	api.GET("/rooms", chat.rooms)
	api.GET("/online", chat.online)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", users.signup)
	authGroup.POST("/login", users.login)
	authGroup.POST("/logout", users.logout)
	authGroup.GET("/me", AuthRequired(accounts), users.me)

	contacts := api.Group("/contacts", AuthRequired(accounts))
	contacts.POST("/add", users.addContact)
	contacts.DELETE("/remove/:contactId", users.removeContact)
	contacts.GET("/list", users.listContacts)
	contacts.GET("/others", users.others)

	api.GET("/rooms/peer/:other", AuthRequired(accounts), chat.peerRoom)

	return r
}
