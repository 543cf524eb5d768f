package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/techstars-london/mentormagic/config"
	"github.com/techstars-london/mentormagic/pkg/export"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate per-day pivot summary tables from the exported schedule",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rows, err := loadScheduleRows(cfg)
	if err != nil {
		return err
	}
	if date != "" {
		rows = export.FilterDate(rows, date)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no meetings found%s", forDate())
	}

	outDir := filepath.Join(cfg.Output.Dir, "daily_summaries")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create summaries dir: %w", err)
	}
	for d, dayRows := range groupByDate(rows) {
		path := filepath.Join(outDir, fmt.Sprintf("meeting_summary_%s.csv", d))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		err = export.WriteDaySummary(f, dayRows)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
