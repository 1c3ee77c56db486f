package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/dgallion1/kitesidebar/internal/config"
	"github.com/dgallion1/kitesidebar/internal/document"
	"github.com/dgallion1/kitesidebar/internal/kited"
	"github.com/dgallion1/kitesidebar/internal/router"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "sidebar",
		Short:         "Kite documentation sidebar",
		Long:          "sidebar renders kited documentation reports as HTML panels, over HTTP or one step at a time.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file (default $SIDEBAR_CONFIG)")

	rootCmd.AddCommand(newServeCmd(&configPath), newRenderCmd(&configPath))
	return rootCmd
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(format string, w io.Writer) *slog.Logger {
	if format == "text" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// components are the pieces shared by every command.
type components struct {
	client *kited.Client
	stats  *kited.Stats
	docs   *document.Store
	nav    *router.Router
}

func build(cfg config.Config, log *slog.Logger) (*components, error) {
	hover, err := router.ParseErrorPolicy(cfg.HoverErrors)
	if err != nil {
		return nil, err
	}
	symbol, err := router.ParseErrorPolicy(cfg.SymbolErrors)
	if err != nil {
		return nil, err
	}

	stats := kited.NewStats(cfg.StatsWindow)
	client := kited.NewClient(cfg.KitedURL, cfg.KitedTimeout, stats)
	docs := document.NewStore()
	nav := router.New(client, client, docs, log, router.Options{
		Editor:       cfg.Editor,
		MembersLimit: cfg.MembersLimit,
		SymbolErrors: symbol,
		HoverErrors:  hover,
	})
	return &components{client: client, stats: stats, docs: docs, nav: nav}, nil
}
