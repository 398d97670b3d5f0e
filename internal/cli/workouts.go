package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"intervaltimer/internal/app"
	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/storage"
)

func newWorkoutsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workouts",
		Aliases: []string{"w"},
		Short:   "Manage saved workouts",
		RunE:    func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newWorkoutsListCmd(env))
	cmd.AddCommand(newWorkoutsShowCmd(env))
	cmd.AddCommand(newWorkoutsSaveCmd(env))
	cmd.AddCommand(newWorkoutsDeleteCmd(env))
	return cmd
}

func (env *environment) openStore() (*storage.WorkoutStore, error) {
	return storage.OpenWorkoutStore(env.fs, env.config.DataDir, env.logger)
}

func newWorkoutsListCmd(env *environment) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved workouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := env.openStore()
			if err != nil {
				return err
			}
			workouts := store.List()
			if asJSON {
				if workouts == nil {
					workouts = []model.WorkoutConfig{}
				}
				return writeJSON(cmd.OutOrStdout(), workouts)
			}
			printWorkoutTable(cmd.OutOrStdout(), workouts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newWorkoutsShowCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.openStore()
			if err != nil {
				return err
			}
			workout, err := store.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", workout.ID)
			fmt.Fprintf(out, "Name:     %s\n", workout.Name)
			fmt.Fprintf(out, "Mode:     %s\n", workout.Mode)
			if workout.Mode == model.ModeEMOM {
				fmt.Fprintf(out, "Interval: %s\n", model.FormatClock(workout.IntervalTime))
			} else {
				fmt.Fprintf(out, "Work:     %s\n", model.FormatClock(workout.WorkTime))
				fmt.Fprintf(out, "Rest:     %s\n", model.FormatClock(workout.RestTime))
			}
			fmt.Fprintf(out, "Total:    %s\n", model.FormatDuration(workout.TotalTime))
			fmt.Fprintf(out, "Rounds:   %d\n", timer.CalculateRounds(workout))
			return nil
		},
	}
}

func newWorkoutsSaveCmd(env *environment) *cobra.Command {
	var (
		name  string
		flags workoutFlags
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a workout",
		Example: `  # 30s on / 10s off for 5 minutes
  intervalctl workouts save --name "Tabata-ish" --work 30s --rest 10s --total 5m

  # Every minute on the minute for 10 minutes
  intervalctl workouts save --name "EMOM 10" --mode emom --interval 1m --total 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return app.ErrEmptyName
			}
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			workout := patch.Apply(model.DefaultWorkoutConfig())
			if err := model.Validate(workout); err != nil {
				return err
			}

			store, err := env.openStore()
			if err != nil {
				return err
			}
			saved, err := store.Save(name, workout)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q as %s\n", saved.Name, saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Workout name")
	flags.register(cmd)
	return cmd
}

func newWorkoutsDeleteCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved workout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.openStore()
			if err != nil {
				return err
			}
			workout, err := store.Load(args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(workout.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s)\n", workout.Name, workout.ID)
			return nil
		},
	}
}

// workoutFlags are the config flags shared by save and run.
type workoutFlags struct {
	mode     string
	work     time.Duration
	rest     time.Duration
	interval time.Duration
	total    time.Duration
}

func (flags *workoutFlags) register(cmd *cobra.Command) {
	defaults := model.DefaultWorkoutConfig()
	cmd.Flags().StringVar(&flags.mode, "mode", string(defaults.Mode), "Workout mode (intervals|emom)")
	cmd.Flags().DurationVar(&flags.work, "work", seconds(defaults.WorkTime), "Work phase length")
	cmd.Flags().DurationVar(&flags.rest, "rest", seconds(defaults.RestTime), "Rest phase length")
	cmd.Flags().DurationVar(&flags.interval, "interval", seconds(defaults.IntervalTime), "EMOM interval length")
	cmd.Flags().DurationVar(&flags.total, "total", seconds(defaults.TotalTime), "Total workout length")
}

// patch returns a ConfigPatch holding only the flags set on the command line.
func (flags *workoutFlags) patch(cmd *cobra.Command) (model.ConfigPatch, error) {
	var patch model.ConfigPatch
	if cmd.Flags().Changed("mode") {
		mode, err := model.ParseMode(flags.mode)
		if err != nil {
			return patch, err
		}
		patch.Mode = &mode
	}

	durations := []struct {
		flag   string
		value  time.Duration
		target **int
	}{
		{"work", flags.work, &patch.WorkTime},
		{"rest", flags.rest, &patch.RestTime},
		{"interval", flags.interval, &patch.IntervalTime},
		{"total", flags.total, &patch.TotalTime},
	}
	for _, duration := range durations {
		if !cmd.Flags().Changed(duration.flag) {
			continue
		}
		if duration.value < 0 {
			return patch, fmt.Errorf("--%s must not be negative", duration.flag)
		}
		if duration.value%time.Second != 0 {
			return patch, fmt.Errorf("--%s must be a whole number of seconds, got %s", duration.flag, duration.value)
		}
		secs := int(duration.value / time.Second)
		*duration.target = &secs
	}
	return patch, nil
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

func printWorkoutTable(out io.Writer, workouts []model.WorkoutConfig) {
	if len(workouts) == 0 {
		fmt.Fprintln(out, "No saved workouts.")
		return
	}

	fmt.Fprintf(out, "%-26s %-20s %-9s %-24s %6s  %s\n", "ID", "NAME", "MODE", "LAYOUT", "ROUNDS", "TOTAL")
	for _, workout := range workouts {
		fmt.Fprintf(out, "%-26s %-20s %-9s %-24s %6d  %s\n",
			workout.ID,
			truncate(workout.Name, 20),
			workout.Mode,
			model.Describe(workout),
			timer.CalculateRounds(workout),
			model.FormatDuration(workout.TotalTime),
		)
	}
}

func truncate(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen-3]) + "..."
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
