package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/config"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wire"
)

// DirectoryCmd returns the driver/worker/ship directory admin command.
func DirectoryCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Manage the driver, worker and ship directories",
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to shiftbot.yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "list <driver|worker|ship>",
		Short: "List active entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(cfgPath, func(ctx context.Context, dir wire.DirectoryAdmin) error {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				names, err := dir.ListActive(ctx, kind)
				if err != nil {
					return err
				}
				for i, name := range names {
					fmt.Printf("%d. %s\n", i+1, name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <driver|worker|ship> <name>",
		Short: "Append a new active entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(cfgPath, func(ctx context.Context, dir wire.DirectoryAdmin) error {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				name := strings.Join(args[1:], " ")
				if err := dir.Add(ctx, kind, name); err != nil {
					return err
				}
				color.Green("added %s %q", kind, name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "archive <driver|worker|ship> <name>",
		Short: "Archive an entry so it stops being selectable",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(cfgPath, func(ctx context.Context, dir wire.DirectoryAdmin) error {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				name := strings.Join(args[1:], " ")
				if err := dir.Archive(ctx, kind, name); err != nil {
					return err
				}
				color.Yellow("archived %s %q", kind, name)
				return nil
			})
		},
	})

	return cmd
}

func parseKind(raw string) (secondary.EntryKind, error) {
	switch raw {
	case "driver":
		return secondary.KindDriver, nil
	case "worker":
		return secondary.KindWorker, nil
	case "ship":
		return secondary.KindShip, nil
	default:
		return "", fmt.Errorf("unknown directory %q, use driver, worker or ship", raw)
	}
}

func withDirectory(cfgPath string, fn func(context.Context, wire.DirectoryAdmin) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return err
	}

	storage, err := wire.OpenStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	return fn(context.Background(), storage.Directory)
}
