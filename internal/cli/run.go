// Package cli implements the shiftbot terminal commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/config"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/logging"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wire"
)

// RunCmd returns the command that starts the bot.
func RunCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the shift reporting bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(cfg.Verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			bot, storage, err := wire.BuildBot(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := storage.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "failed to close storage: %v\n", err)
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to shiftbot.yaml")
	return cmd
}
