package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/kitesidebar/internal/api"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve sidebar panels over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogFormat, os.Stdout)

			c, err := build(cfg, log)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      api.NewServer(c.nav, c.docs, c.stats, log, cfg),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: cfg.KitedTimeout + 30*time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				httpServer.Shutdown(shutdownCtx)

				c.client.Close()
			}()

			log.Info("starting sidebar", "port", cfg.Port, "kited_url", cfg.KitedURL, "editor", cfg.Editor)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
