package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/techstars-london/mentormagic/config"
	"github.com/techstars-london/mentormagic/pkg/export"
)

var noMaster bool

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Generate per-mentor and per-company markdown descriptions from the exported schedule",
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().BoolVar(&noMaster, "no-master", false, "skip the all-mentors master file")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
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

	outDir := filepath.Join(cfg.Output.Dir, "descriptions")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create descriptions dir: %w", err)
	}

	byDate := groupByDate(rows)
	for d, dayRows := range byDate {
		for _, mentor := range mentorsOf(dayRows) {
			path := filepath.Join(outDir, fmt.Sprintf("%s_%s.md", export.SafeFilename(mentor), d))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			err = export.WriteMentorDescription(f, mentor, d, dayRows)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("wrote %s\n", path)
		}
		if err := writeFounderFiles(cfg, d, dayRows); err != nil {
			return err
		}
		if noMaster {
			continue
		}
		path := filepath.Join(outDir, fmt.Sprintf("All_Mentors_%s.md", d))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		err = export.WriteMasterDescription(f, d, dayRows)
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

// writeFounderFiles writes the per-company welcome files plus the combined
// all-founders file for one date.
func writeFounderFiles(cfg *config.Config, date string, rows []export.Row) error {
	outDir := filepath.Join(cfg.Output.Dir, "descriptions", "founders")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create founders dir: %w", err)
	}
	for _, company := range companiesOf(rows) {
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s.md", export.SafeFilename(company), date))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		err = export.WriteFounderDescription(f, company, date, rows, cfg.Output.LookbookURL)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	if noMaster {
		return nil
	}
	path := filepath.Join(outDir, fmt.Sprintf("all_founders_%s.md", date))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = export.WriteAllFoundersDescription(f, date, rows)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func loadScheduleRows(cfg *config.Config) ([]export.Row, error) {
	path := filepath.Join(cfg.Output.Dir, "meeting_schedule.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule (run `mentormagic schedule` first): %w", err)
	}
	defer func() { _ = f.Close() }()
	return export.ReadCSV(f)
}

func groupByDate(rows []export.Row) map[string][]export.Row {
	out := make(map[string][]export.Row)
	for _, r := range rows {
		out[r.Date] = append(out[r.Date], r)
	}
	return out
}

func mentorsOf(rows []export.Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.Mentor]; !ok {
			seen[r.Mentor] = struct{}{}
			names = append(names, r.Mentor)
		}
	}
	return names
}

func companiesOf(rows []export.Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.Company]; !ok {
			seen[r.Company] = struct{}{}
			names = append(names, r.Company)
		}
	}
	return names
}

func forDate() string {
	if date == "" {
		return ""
	}
	return " for " + date
}
