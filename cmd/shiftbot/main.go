package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/cli"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "shiftbot",
		Short:   "Telegram bot for stevedore shift reports",
		Version: version.String(),
		Long: `shiftbot collects daily shift reports in a Telegram dialogue:
crew roster, expenses and packing materials with photos, stored in a
record store and announced to the work group on shift close.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.DirectoryCmd())
	rootCmd.AddCommand(cli.ExportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
