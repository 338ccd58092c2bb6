package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/food-swipe/internal/client"
	"github.com/actuallystonmai/food-swipe/internal/config"
	"github.com/actuallystonmai/food-swipe/internal/handler"
	"github.com/actuallystonmai/food-swipe/internal/hub"
	"github.com/actuallystonmai/food-swipe/internal/identity"
	"github.com/actuallystonmai/food-swipe/internal/logging"
	"github.com/actuallystonmai/food-swipe/internal/router"
	"github.com/actuallystonmai/food-swipe/internal/swipe"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.LoggingConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:]); err != nil {
		logging.Error().Err(err).Msg("swiped exited with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	// ------------ Identity store ---------------
	tokens, err := identity.Open(ctx, cfg.IdentityConfig())
	if err != nil {
		return err
	}
	defer tokens.Close()
	logging.Info().Str("backend", cfg.Identity.Backend).Msg("identity store ready")

	// forget the stored session token using CLI command
	if len(args) > 0 && args[0] == "reset-token" {
		if err := tokens.ClearToken(ctx); err != nil {
			return err
		}
		logging.Info().Msg("session token cleared")
		return nil
	}

	// ------------ Controller ---------------
	hb := hub.NewHub()
	remote := client.NewClient(cfg.ClientConfig())
	ctrl := swipe.NewController(cfg.SwipeConfig(), remote, tokens, hb)
	views, unsubscribe := ctrl.Subscribe(16)
	defer unsubscribe()

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(handler.NewHandler(ctrl, tokens), hb, router.Options{
			CORSOrigins:    cfg.Server.CORSOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hb.Run(gctx) })
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error {
		hb.Forward(gctx, views)
		return nil
	})
	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.URL).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logging.Info().Msg("server stopped")
	return err
}
