// Package main is the entry point for the casino bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casino-bot/internal/bot"
	"casino-bot/internal/config"
	"casino-bot/internal/game"
	"casino-bot/internal/game/coinflip"
	"casino-bot/internal/game/roulette"
	"casino-bot/internal/game/slot"
	"casino-bot/internal/keepalive"
	"casino-bot/internal/ledger"
	"casino-bot/internal/pkg/db"
	"casino-bot/internal/pkg/lock"
	"casino-bot/internal/repository"
	"casino-bot/internal/repository/sqlite"
	"casino-bot/internal/service"
	"casino-bot/internal/session"
)

const shutdownTimeout = 5 * time.Second

// store is what the ledger and the health check need from a backend.
type store interface {
	ledger.Store
	keepalive.Pinger
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("store", cfg.Store.Driver).Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	loc, err := cfg.Daily.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid daily configuration")
	}

	led := ledger.New(st, lock.NewUserLock())

	games := game.NewRegistry()
	for _, g := range []game.Game{
		coinflip.New(cfg.Games.CoinflipStake, nil),
		roulette.New(cfg.Games.MaxBet, nil),
		slot.New(cfg.Games.MaxBet, nil),
	} {
		if err := games.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Command()).Msg("Failed to register game")
		}
	}
	log.Info().Int("game_count", games.Count()).Msg("Games registered")

	accountService := service.NewAccountService(led, service.DailySchedule{
		Base:   cfg.Daily.BaseBonus,
		Weekly: cfg.Daily.WeeklyBonus,
		Fifth:  cfg.Daily.FifthBonus,
	}, loc)
	gameService := service.NewGameService(led, games, session.NewRegistry(), nil, cfg.Games.MaxBet)

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		GameService:    gameService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	var server *keepalive.Server
	if cfg.Keepalive.Enabled {
		server = keepalive.New(cfg.Keepalive.Addr(), st)
		server.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go telegramBot.Start()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Keep-alive server shutdown failed")
		}
		shutdownCancel()
	}

	log.Info().Msg("Bot stopped gracefully")
}

// openStore connects the configured backend and returns a function that
// releases it.
func openStore(ctx context.Context, cfg *config.Config) (store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {
			if err := st.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close sqlite store")
			}
		}, nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("Running database migrations...")
		if err := repository.Migrate(ctx, pool.Pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewStore(pool.Pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
