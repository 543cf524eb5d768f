// Package app wires the connectors, the assignment engine and the exporters
// into the scheduling pipeline.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/techstars-london/mentormagic/config"
	"github.com/techstars-london/mentormagic/core/assign"
	corehistory "github.com/techstars-london/mentormagic/core/history"
	"github.com/techstars-london/mentormagic/core/logger"
	coremetrics "github.com/techstars-london/mentormagic/core/metrics"
	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/roster"
	"github.com/techstars-london/mentormagic/core/slots"
	"github.com/techstars-london/mentormagic/infra/airtable"
	infrahistory "github.com/techstars-london/mentormagic/infra/history"
	infralogger "github.com/techstars-london/mentormagic/infra/logger"
	"github.com/techstars-london/mentormagic/infra/metrics"
	"github.com/techstars-london/mentormagic/pkg/export"
)

// RosterSource fetches the mentors eligible for a date.
type RosterSource interface {
	MentorsFor(ctx context.Context, date string) ([]model.Mentor, error)
}

// RunArtifacts is everything one scheduling run produced.
type RunArtifacts struct {
	Result       assign.Result
	Rows         []export.Row
	SchedulePath string
	BackupPath   string
}

// Service orchestrates the scheduling pipeline for one or more dates.
type Service struct {
	cfg    *config.Config
	log    logger.Logger
	source RosterSource
	hist   corehistory.Store
	sink   coremetrics.Sink
	engine *assign.Engine
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.New("service")
	source, err := airtable.NewClient(cfg.Airtable)
	if err != nil {
		return nil, fmt.Errorf("airtable client: %w", err)
	}
	hist, err := infrahistory.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			_ = hist.Close()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:    cfg,
		log:    logg,
		source: source,
		hist:   hist,
		sink:   sink,
		engine: assign.New(logg),
	}, nil
}

// NewWithDeps creates a Service with explicit collaborators, used by tests.
func NewWithDeps(cfg *config.Config, source RosterSource, hist corehistory.Store, sink coremetrics.Sink, log logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = infralogger.NopLogger{}
	}
	return &Service{cfg: cfg, log: log, source: source, hist: hist, sink: sink, engine: assign.New(log)}
}

// ScheduleDay runs the full pipeline for one date: fetch the roster, assign,
// export the artifacts and commit the pairing history. Fatal errors abort
// before any history mutation; soft shortfalls are reported in the artifacts.
func (s *Service) ScheduleDay(ctx context.Context, date string) (*RunArtifacts, error) {
	started := time.Now()

	grid, err := slots.Build(date, s.cfg.Slots)
	if err != nil {
		return nil, err
	}
	mentors, err := s.source.MentorsFor(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	companies := s.cfg.CompanyModels()
	store := roster.New(mentors, companies)

	snap, err := s.hist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	res, err := s.engine.Assign(grid, store, snap, date)
	if err != nil {
		return nil, err
	}
	for _, u := range res.Unscheduled {
		s.log.Warnf("%s %s left unscheduled (%s)", u.Kind, u.ID, u.Reason)
	}

	rows, err := export.BuildRows(res.Schedule, grid, store.Mentors(), store.Companies(), s.cfg.Output.LookbookURL)
	if err != nil {
		return nil, err
	}
	schedulePath, backupPath, err := s.writeArtifacts(date, rows)
	if err != nil {
		return nil, err
	}

	// History is committed only once the schedule is validated and persisted.
	entries := make([]corehistory.Entry, 0, len(res.Schedule.Meetings))
	for _, mt := range res.Schedule.Meetings {
		entries = append(entries, corehistory.Entry{MentorID: mt.MentorID, CompanyID: mt.CompanyID, Date: mt.Date})
	}
	if err := s.hist.Commit(ctx, entries); err != nil {
		return nil, fmt.Errorf("commit history: %w", err)
	}

	if err := s.sink.RecordRun(coremetrics.RunResult{
		Date:        date,
		Meetings:    len(res.Schedule.Meetings),
		Mentors:     len(store.Mentors()),
		Companies:   len(store.Companies()),
		Repeats:     res.Repeats,
		Unscheduled: len(res.Unscheduled),
		Duration:    time.Since(started),
		Time:        started,
	}); err != nil {
		s.log.Errorf("metrics error: %v", err)
	}

	return &RunArtifacts{Result: res, Rows: rows, SchedulePath: schedulePath, BackupPath: backupPath}, nil
}

// writeArtifacts writes the schedule CSV and JSON plus a timestamped CSV
// backup.
func (s *Service) writeArtifacts(date string, rows []export.Row) (schedulePath, backupPath string, err error) {
	outDir := s.cfg.Output.Dir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	schedulePath = filepath.Join(outDir, "meeting_schedule.csv")
	if err := writeFile(schedulePath, func(f *os.File) error { return export.WriteCSV(f, rows) }); err != nil {
		return "", "", err
	}
	jsonPath := filepath.Join(outDir, "meeting_schedule.json")
	if err := writeFile(jsonPath, func(f *os.File) error { return export.WriteJSON(f, rows) }); err != nil {
		return "", "", err
	}

	backupDir := s.cfg.Output.BackupDir
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create backup dir: %w", err)
	}
	stamp := time.Now().Format("20060102_150405")
	backupPath = filepath.Join(backupDir, fmt.Sprintf("meeting_schedule_%s_%s.csv", date, stamp))
	if err := writeFile(backupPath, func(f *os.File) error { return export.WriteCSV(f, rows) }); err != nil {
		return "", "", err
	}
	s.log.Infof("schedule exported to %s (backup %s)", schedulePath, backupPath)
	return schedulePath, backupPath, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	return s.hist.Close()
}
