package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/internal/config"
	"github.com/robalobadob/worldle/internal/countries"
	"github.com/robalobadob/worldle/internal/daily"
	"github.com/robalobadob/worldle/internal/game"
	"github.com/robalobadob/worldle/internal/httpserver"
	"github.com/robalobadob/worldle/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	catalog, err := countries.Load(cfg.CountriesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load country catalog")
	}
	log.Info().Int("countries", catalog.Len()).Strs("locales", catalog.Locales()).Msg("catalog loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, store.Options{
		Kind:       cfg.Store.Backend,
		SQLitePath: cfg.Store.SQLitePath,
		RedisAddr:  cfg.Store.RedisAddr,
		Retention:  cfg.Store.Retention,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer backend.Close()

	srv := httpserver.New(httpserver.Options{
		Catalog:     catalog,
		Sessions:    store.NewSessions(backend),
		Salt:        cfg.DailySalt,
		TokenSecret: cfg.TokenSecret,
		Defaults: game.Modes{
			HideImage: cfg.Defaults.NoImageMode,
			Rotation:  cfg.Defaults.RotationMode,
		},
		DefaultLocale: cfg.DefaultLocale,
		ClientOrigin:  cfg.ClientOrigin,
		SecureCookies: cfg.SecureCookies,
		Clock:         daily.SystemClock{},
	})

	log.Info().
		Str("port", cfg.Port).
		Str("store", cfg.Store.Backend).
		Str("day", daily.CurrentDayID(daily.SystemClock{})).
		Msg("starting worldle server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
