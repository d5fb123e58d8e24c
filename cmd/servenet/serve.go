package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servenet/internal/seed"
	"servenet/internal/server"
	"servenet/internal/store"

	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	logger, err := newLogger(config)
	if err != nil {
		return err
	}

	registry := store.NewRegistry(func(wallet string) *store.SubmissionStore {
		st := store.NewSubmissionStore(storeOptions(config, logger, wallet))
		if config.SeedDemoData {
			seed.SeedObservations(st, seed.DemoObservations)
		}
		return st
	}, store.RegistryOptions{
		IdleTimeout: time.Duration(config.WalletMaxAgeSec) * time.Second,
	})

	srv, err := server.New(config, logger, registry)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
