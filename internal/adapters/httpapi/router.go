// Package httpapi wires the gin router: static client bundle, the REST
// surface around the core, and the websocket upgrade endpoint.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/adapters/signal"
	"github.com/gauravkharai149-boop/voice-roooom/internal/auth"
	"github.com/gauravkharai149-boop/voice-roooom/internal/config"
)

// ClientTokenMiddleware gives every browser a stable identity cookie.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller, accounts *auth.Service) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("VoiceRoomSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/auth.html")
	})

	log.Info().Str("module", "httpapi").Str("static", cfg.StaticPath).Msg("router setup")

	// Same snapshots the rooms-update push carries, for room browsers
	// that poll before the websocket is up.
	r.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, ctl.Manager.Rooms())
	})

	api := r.Group("/api")

	api.POST("/register", handleRegister(accounts))
	api.POST("/login", handleLogin(accounts))

	// ICE config for the browser's RTCPeerConnection.
	iceServers := []webrtc.ICEServer{{URLs: cfg.StunServers}}
	api.GET("/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	return r
}

func handleRegister(accounts *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}
		if err := accounts.Register(req.Email, req.Password); err != nil {
			status := http.StatusBadRequest
			if !auth.IsClientError(err) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"message": "Registration successful! You can now login.",
		})
	}
}

func handleLogin(accounts *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		token, err := accounts.Login(req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "email": req.Email})
	}
}
