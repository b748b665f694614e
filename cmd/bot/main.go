// Package main contains the entrypoint for the chat-relay bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dmarques/relaybot/internal/ai"
	"github.com/dmarques/relaybot/internal/bot"
	"github.com/dmarques/relaybot/internal/bot/tasks"
	"github.com/dmarques/relaybot/internal/config"
	"github.com/dmarques/relaybot/internal/gateway/console"
	"github.com/dmarques/relaybot/internal/logger"
)

// botUserID is the bot's own author ID on the console gateway. A platform
// adapter supplies the real identity at login.
const botUserID = "0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, AI client,
// router, gateway, scheduler), starts them, and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	aiClient, err := ai.NewClient(cfg.AI, log)
	if err != nil {
		log.Error("Failed to initialize AI client", "error", err)
		return 1
	}

	cache := bot.NewConversationCache()
	gate := bot.NewRateGate(cfg.AI.MinRequestInterval)
	strikes := bot.NewStrikeTracker(cfg.Bot.StrikeInterval)

	// The console adapter stands in for a real gateway connection; the
	// router only sees the gateway.Client and gateway.Handler ports.
	gw := console.New(log, os.Stdin, os.Stdout, botUserID)
	router := bot.NewRouter(log, cfg, gw, aiClient, cache, gate, strikes, botUserID)
	gw.SetHandler(router)

	taskDeps := tasks.TaskDeps{
		Logger:      log,
		CacheStats:  cache,
		StrikeStats: strikes,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(taskDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, router, gw, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
