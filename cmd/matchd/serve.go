package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/matchd/internal/accounts"
	"github.com/standardbeagle/matchd/internal/apiserver"
	"github.com/standardbeagle/matchd/internal/config"
	"github.com/standardbeagle/matchd/internal/matcher"
	"github.com/standardbeagle/matchd/internal/store"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP match server",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides config)"},
	},
	Action: serveAction,
}

// serveAction wires the configured Store into a Matcher and an
// apiserver.Server, then blocks until SIGINT/SIGTERM, draining
// in-flight requests before exiting. Grounded on
// cmd/lci/main_server.go's serverCommand: signal.Notify +
// context.WithTimeout shutdown, adapted from the teacher's Unix-socket
// "Wait for shutdown signal or server shutdown" select to a plain
// signal-only wait (an HTTP server has no analogous in-process
// "shutdown requested" channel).
func serveAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	s, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to build store: %w", err)
	}

	m := matcher.New(s, cfg.Matching.Threshold, cfg.Matching.TopK, cfg.Matching.Workers)

	srv := apiserver.New(m, apiserver.Options{
		Addr:               cfg.Server.Addr,
		ReadTimeoutSec:     cfg.Server.ReadTimeoutSec,
		WriteTimeoutSec:    cfg.Server.WriteTimeoutSec,
		ShutdownTimeoutSec: cfg.Server.ShutdownTimeoutSec,
	})

	if cfg.Accounts.Enabled {
		acctStore := buildAccountStore(s)
		srv.WithAccounts(accounts.New(acctStore, cfg.Accounts.JWTSecret, cfg.Accounts.TokenTTLHours))
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	fmt.Printf("matchd listening on %s\n", cfg.Server.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	fmt.Printf("\nreceived signal %v, shutting down...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	fmt.Println("matchd shut down cleanly")
	return nil
}

// buildStore constructs the Store the config's Store.Driver names.
func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.ConnectPostgresStore(context.Background(), cfg.Store.DSN)
	default:
		return store.NewMemStore(nil), nil
	}
}

// buildAccountStore mirrors buildStore for the optional accounts
// surface: when s is a *store.PostgresStore the accounts surface shares
// its connection pool rather than opening a second one against the same
// DSN; otherwise it falls back to an in-memory account store.
func buildAccountStore(s store.Store) accounts.AccountStore {
	if pg, ok := s.(*store.PostgresStore); ok {
		return accounts.NewPostgresAccountStore(pg.Pool())
	}
	return accounts.NewMemAccountStore()
}
