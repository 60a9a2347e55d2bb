package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gauravkharai149-boop/voice-roooom/internal/adapters/httpapi"
	wssignal "github.com/gauravkharai149-boop/voice-roooom/internal/adapters/signal"
	"github.com/gauravkharai149-boop/voice-roooom/internal/app"
	"github.com/gauravkharai149-boop/voice-roooom/internal/auth"
	"github.com/gauravkharai149-boop/voice-roooom/internal/config"
	"github.com/gauravkharai149-boop/voice-roooom/internal/mail"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	manager := app.NewManager(cfg.RoomGrace)
	relay := app.NewRelay(manager)
	ctl := wssignal.NewController(cfg, manager, relay)
	accounts := auth.NewService(mail.New(cfg.SMTP))

	r := httpapi.SetupRouter(ctx, cfg, ctl, accounts)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("voice room server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
