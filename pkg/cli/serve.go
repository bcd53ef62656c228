package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/crowd-lab/crowdsim/pkg/cli/config"
	httpctrl "github.com/crowd-lab/crowdsim/pkg/controller/http"
	"github.com/crowd-lab/crowdsim/pkg/usecase"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var seed uint64
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CROWDSIM_ADDR"),
			Destination: &addr,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "Master random seed for reproducible runs (0 uses a random seed)",
			Sources:     cli.EnvVars("CROWDSIM_SEED"),
			Destination: &seed,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona catalog")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(ctx); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			decisionOracle, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure decision oracle")
			}

			ucOpts := []usecase.Option{}
			if seed != 0 {
				ucOpts = append(ucOpts, usecase.WithSeed(seed))
				logging.Default().Info("Using fixed random seed", "seed", seed)
			}

			uc, err := usecase.New(ctx, catalog, repo, decisionOracle, ucOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize simulator")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr, "personas", len(catalog), "backend", repoCfg.Backend())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
