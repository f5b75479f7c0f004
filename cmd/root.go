// Package cmd implements the CLI commands for filmdex using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/filmdex/config"
	"github.com/gaurav-prasanna/filmdex/logging"
)

const defaultConfigPath = "filmdex.yml"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "filmdex",
	Short: "filmdex — crawl a film catalog into a typed dataset",
	Long: `Filmdex walks a paginated film catalog, extracts one typed record per
title, and keeps every result in a resumable checkpoint store.

Usage:
  filmdex run [flags]
  filmdex export --format json`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath,
		"Path to the YAML config file")
}

// loadConfig reads the configured file. The stock path may be absent,
// in which case the defaults apply; an explicitly given --config must
// exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		if flagConfig == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *zap.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Development)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
