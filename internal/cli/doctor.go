package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/config"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wire"
)

type checkResult struct {
	name    string
	ok      bool
	details string
}

// DoctorCmd returns the configuration and storage self-check command.
func DoctorCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and record store health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			results := []checkResult{
				check("bot token", cfg.BotToken != "", "set SHIFTBOT_BOT_TOKEN or bot_token"),
				check("group chat id", cfg.GroupChatID != 0, "set SHIFTBOT_GROUP_CHAT_ID or group_chat_id"),
				check("backend", cfg.ValidateStorage() == nil, fmt.Sprintf("backend %q is not supported", cfg.Backend)),
				check("disk token", cfg.DiskToken != "", "set SHIFTBOT_DISK_TOKEN or disk_token"),
			}
			results = append(results, checkStorage(cfg))

			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			failed := false
			for _, r := range results {
				if r.ok {
					fmt.Printf("%-16s %s\n", r.name, green("ok"))
					continue
				}
				failed = true
				fmt.Printf("%-16s %s  %s\n", r.name, red("fail"), r.details)
			}
			if failed {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to shiftbot.yaml")
	return cmd
}

func check(name string, ok bool, details string) checkResult {
	if ok {
		details = ""
	}
	return checkResult{name: name, ok: ok, details: details}
}

// checkStorage opens the configured record store and runs one read probe.
func checkStorage(cfg *config.Config) checkResult {
	if cfg.ValidateStorage() != nil {
		return checkResult{name: "record store", details: "skipped, backend invalid"}
	}

	storage, err := wire.OpenStorage(cfg)
	if err != nil {
		return checkResult{name: "record store", details: err.Error()}
	}
	defer storage.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := storage.Directory.ListActive(ctx, secondary.KindDriver); err != nil {
		return checkResult{name: "record store", details: err.Error()}
	}
	return checkResult{name: "record store", ok: true}
}
