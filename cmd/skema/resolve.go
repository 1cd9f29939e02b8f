package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gradee/skema/model"
)

var resolveType int

var resolveCmd = &cobra.Command{
	Use:   "resolve <school-slug> <schedule-id> [week]",
	Short: "Resolve one schedule week into lessons",
	Long: `Resolve fetches one schedule week, reconstructs its lessons and
prints them as JSON. The week defaults to the current ISO week.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		school, ok := cfgMgr.Get().School(args[0])
		if !ok {
			return fmt.Errorf("unknown school %q", args[0])
		}
		week := currentWeek()
		if len(args) == 3 {
			parsed, err := strconv.Atoi(args[2])
			if err != nil || parsed < 1 || parsed > 53 {
				return fmt.Errorf("invalid week %q", args[2])
			}
			week = parsed
		}

		svc, client, err := newService(school)
		if err != nil {
			return err
		}
		ref := model.ScheduleRef{
			InstallationID: school.NovaID,
			AccessCode:     school.NovaCode,
			Type:           model.TypeKey(resolveType),
			ID:             args[1],
		}
		lessons, err := svc.ResolveSchedule(cmd.Context(), client, ref, week)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lessons)
	},
}

func init() {
	resolveCmd.Flags().IntVar(&resolveType, "type", int(model.TypeClass), "schedule type key (0=teacher, 1=class, 2=group, 3=student, 4=room, 5=subject, 6=course, 7=aula)")
	rootCmd.AddCommand(resolveCmd)
}

func currentWeek() int {
	_, week := time.Now().ISOWeek()
	return week
}
