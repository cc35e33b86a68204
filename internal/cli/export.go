package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/config"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/db"
)

var exportHeaders = []string{
	"date", "foreman", "driver", "workers", "ship", "holds",
	"transport", "foreman_pay", "workers_pay", "auxiliary", "food", "taxi", "other", "total",
	"film_meters", "tube_count", "tape_count", "photos_link", "closed",
}

// ExportCmd returns the command that dumps shift rows to an xlsx workbook.
func ExportCmd() *cobra.Command {
	var cfgPath string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export shift records to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cfg.Backend == config.BackendExcel {
				return fmt.Errorf("the excel backend already stores records in %s", cfg.WorkbookPath)
			}
			if err := cfg.ValidateStorage(); err != nil {
				return err
			}
			return exportSQLite(cfg.DBPath, outPath)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to shiftbot.yaml")
	cmd.Flags().StringVar(&outPath, "out", "shifts-export.xlsx", "output workbook path")
	return cmd
}

func exportSQLite(dbPath, outPath string) error {
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	rows, err := database.Query(`
		SELECT s.shift_date, COALESCE(p.last_name || ' ' || p.display, ''),
		       COALESCE(s.driver, ''), COALESCE(s.workers, ''), COALESCE(s.ship, ''), COALESCE(s.holds, 0),
		       s.transport, s.foreman, s.workers_pay, s.auxiliary, s.food, s.taxi, s.other, s.total,
		       s.film_meters, s.tube_count, s.tape_count, COALESCE(s.photos_link, ''), s.closed
		FROM shifts s
		LEFT JOIN profiles p ON p.telegram_id = s.user_id
		ORDER BY s.shift_date, s.id`)
	if err != nil {
		return fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	file := excelize.NewFile()
	defer file.Close()
	const sheet = "shifts"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	count := 0
	for rows.Next() {
		var (
			date, foreman, driver, workers, shipName, link string
			holds, transport, foremanPay, workersPay       int
			auxiliary, food, taxi, other, total            int
			film, tubes, tape, closed                      int
		)
		if err := rows.Scan(
			&date, &foreman, &driver, &workers, &shipName, &holds,
			&transport, &foremanPay, &workersPay, &auxiliary, &food, &taxi, &other, &total,
			&film, &tubes, &tape, &link, &closed,
		); err != nil {
			return fmt.Errorf("failed to scan shift row: %w", err)
		}

		count++
		values := []any{
			date, foreman, driver, workers, shipName, holds,
			transport, foremanPay, workersPay, auxiliary, food, taxi, other, total,
			film, tubes, tape, link, closed,
		}
		for i, value := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, count+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read shifts: %w", err)
	}

	if err := file.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	fmt.Printf("exported %d shifts to %s\n", count, outPath)
	return nil
}
