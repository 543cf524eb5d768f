package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/techstars-london/mentormagic/app"
	"github.com/techstars-london/mentormagic/config"
	"github.com/techstars-london/mentormagic/infra/logger"
	"github.com/techstars-london/mentormagic/infra/metrics"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Assign mentor/company meetings for a date and export the artifacts",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if date == "" {
		return fmt.Errorf("--date is required")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	if cfg.Metrics.PrometheusEnabled && cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusPort); err != nil {
				logger.New("metrics").Errorf("metrics server: %v", err)
			}
		}()
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	art, err := svc.ScheduleDay(ctx, date)
	if err != nil {
		return err
	}
	fmt.Printf("scheduled %d meetings for %s -> %s\n", len(art.Rows), date, art.SchedulePath)
	for _, u := range art.Result.Unscheduled {
		fmt.Printf("unscheduled %s %s: %s\n", u.Kind, u.ID, u.Reason)
	}
	return nil
}
