package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// GatewayRunner is the event loop of a gateway adapter. Run blocks until
// the context is cancelled or the connection fails.
type GatewayRunner interface {
	Run(ctx context.Context) error
}

// Bot manages the lifecycle of the router's collaborators: the gateway
// event loop and the task scheduler.
type Bot struct {
	logger    *slog.Logger
	router    *Router
	runner    GatewayRunner
	scheduler *Scheduler
}

// NewBot creates the bot orchestrator.
func NewBot(logger *slog.Logger, router *Router, runner GatewayRunner, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		router:    router,
		runner:    runner,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails. Shutdown is graceful: the scheduler waits for running
// jobs.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	b.router.AnnouncePresence(ctx)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting gateway event loop...")
		err := b.runner.Run(gCtx)
		b.logger.Info("Gateway event loop stopped.")

		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("gateway event loop failed: %w", err)
		}
		if gCtx.Err() == nil {
			return fmt.Errorf("gateway event loop stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
