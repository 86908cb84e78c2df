package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"linkaudit/internal/app"
	"linkaudit/internal/config"
	"linkaudit/internal/ioformats"
	"linkaudit/pkg/logger"
)

var (
	flagConfig   string
	flagOutput   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "linkaudit",
	Short: "linkaudit compares URLs, extracts links and checks pages",
	Long: `linkaudit decides whether URLs point at the same page, extracts
noindex-aware links from HTML and probes pages over HTTP.

Usage:
  linkaudit same http://www.site.ru/a/ site.ru/a
  linkaudit links page.html --site site.ru
  linkaudit check --input urls.csv`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides config)")
}

// setup loads configuration and builds the shared services.
func setup() (*app.App, error) {
	boot := logger.NewWithWriter(os.Stderr, flagLogLevel)
	cfg, err := config.Load(flagConfig, boot)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return app.New(cfg, logger.NewWithWriter(os.Stderr, cfg.LogLevel))
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Log.Warnf("close: %v", err)
	}
}

// output opens --output, or stdout.
func output() (io.Writer, func() error, error) {
	if flagOutput == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(flagOutput)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output")
	}
	return f, f.Close, nil
}

func writeNDJSON[T any](items []T) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := ioformats.WriteNDJSON(w, items); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
