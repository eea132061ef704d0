// Command accessctl administers the equipment access engine: schema
// migrations, fixtures, tokens, QR codes and spreadsheet import/export.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-access/internal/bootstrap"
	"equipment-access/pkg/config"
	applogger "equipment-access/pkg/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:           "accessctl",
	Short:         "Administer the equipment access engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg := config.New()
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := applogger.NewLogger(level, "stderr")
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// withContainer runs fn against a fully wired container and releases it afterwards.
func withContainer(ctx context.Context, fn func(c *bootstrap.Container) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	c, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
