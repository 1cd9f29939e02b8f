package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/gradee/skema/model"
)

var updateWatch bool

var updateCmd = &cobra.Command{
	Use:   "update <school-slug>",
	Short: "Refresh the cached schedules of a school",
	Long: `Update lists every schedule entity of the school and refreshes the
current week's cached lessons for each one. With --watch it keeps
running and repeats at the configured interval.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		school, ok := cfgMgr.Get().School(args[0])
		if !ok {
			return fmt.Errorf("unknown school %q", args[0])
		}
		if !updateWatch {
			return updateSchool(cmd.Context(), school.Slug)
		}

		cfgMgr.WatchConfig()
		interval := cfgMgr.Get().Update.Interval
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := updateSchool(cmd.Context(), school.Slug); err != nil {
				logger.Error("update pass failed", "school", school.Slug, "error", err)
			}
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-ticker.C:
			}
		}
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateWatch, "watch", false, "keep running and refresh at the configured interval")
	rootCmd.AddCommand(updateCmd)
}

// updateSchool refreshes the current week of every entity's schedule,
// retrying transient upstream failures per schedule.
func updateSchool(ctx context.Context, slug string) error {
	school, ok := cfgMgr.Get().School(slug)
	if !ok {
		return fmt.Errorf("unknown school %q", slug)
	}
	svc, client, err := newService(school)
	if err != nil {
		return err
	}
	entities, err := client.Entities(ctx)
	if err != nil {
		return err
	}

	week := currentWeek()
	attempts := cfgMgr.Get().Update.Attempts
	if attempts == 0 {
		attempts = 1
	}

	var failed int
	for _, entity := range entities {
		ref := model.ScheduleRef{
			InstallationID: school.NovaID,
			AccessCode:     school.NovaCode,
			Type:           entity.Type,
			ID:             entity.ID,
			Initials:       entity.Initials,
		}
		err := retry.Do(
			func() error {
				_, err := svc.ResolveSchedule(ctx, client, ref, week)
				return err
			},
			retry.Context(ctx),
			retry.Attempts(attempts),
			retry.Delay(time.Second),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			failed++
			logger.Warn("schedule refresh failed", "school", slug, "schedule", entity.ID, "error", err)
		}
	}
	logger.Info("update pass finished", "school", slug, "week", week, "schedules", len(entities), "failed", failed)
	return nil
}
