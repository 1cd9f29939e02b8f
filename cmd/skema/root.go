package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gradee/skema"
	"github.com/gradee/skema/cache"
	"github.com/gradee/skema/internal/config"
	"github.com/gradee/skema/upstream/nova"
	"github.com/gradee/skema/upstream/skolverket"
)

var (
	cfgFile string
	cfgMgr  *config.Manager
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "skema",
	Short: "Reconstruct school timetables from rendered schedule documents",
	Long: `Skema rebuilds school timetables from the geometric primitives of
rendered schedule documents: colored fills and positioned text runs.

It reconstructs the weekday/time grid, extracts lesson slots, attaches
text fragments, disambiguates ambiguous slots against the source's
lesson detail pages, and resolves titles into course and participant
references.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr = mgr
		logger = newLogger(mgr.Get().Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.skema/config.yaml)",
	)
}

func newLogger(cfg config.LogCfg) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// newService wires the pipeline for one configured school's legacy viewer
// installation.
func newService(school config.SchoolCfg) (*skema.Service, *nova.Client, error) {
	cfg := cfgMgr.Get()
	if school.NovaID == "" {
		return nil, nil, fmt.Errorf("school %q has no viewer installation configured", school.Slug)
	}

	mgr, err := cache.NewManager(cfg.Cache.Dir, logger)
	if err != nil {
		return nil, nil, err
	}
	client := nova.NewClient(nova.Config{
		SchoolID:   school.NovaID,
		AccessCode: school.NovaCode,
		Converter: nova.CommandConverter{
			Path: cfg.Converter.Command,
			Args: cfg.Converter.Args,
		},
		Logger: logger,
	})

	svc := skema.NewService(mgr, logger)
	svc.Entities = client
	svc.Staleness = client
	svc.Courses = skolverket.NewClient(cfg.Courses.URL, logger)
	return svc, client, nil
}
