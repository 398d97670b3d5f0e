package cli

import (
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"intervaltimer/internal/config"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/cue"
	"intervaltimer/internal/logging"
	"intervaltimer/internal/platform"
)

// runtime holds the OS-facing collaborators so tests can swap them out.
type runtime struct {
	fs          afero.Fs
	newSink     func(logging.Logger) cue.Sink
	newWakeLock func() timer.WakeLock
}

func defaultRuntime() *runtime {
	return &runtime{
		fs:      afero.NewOsFs(),
		newSink: platform.NewSink,
		newWakeLock: func() timer.WakeLock {
			return platform.NewWakeLock("Interval workout in progress")
		},
	}
}

// environment is populated by the root command before any subcommand runs.
type environment struct {
	*runtime
	config *config.Config
	logger logging.Logger
}

// NewRoot builds the intervalctl command tree.
func NewRoot() *cobra.Command {
	return newRoot(defaultRuntime())
}

func newRoot(rt *runtime) *cobra.Command {
	env := &environment{runtime: rt}

	var (
		home  string
		tick  time.Duration
		debug bool
	)

	cmd := &cobra.Command{
		Use:           "intervalctl",
		Short:         "Interval and EMOM workout timer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var overrides config.Overrides
			if cmd.Flags().Changed("home") {
				overrides.DataDir = &home
			}
			if cmd.Flags().Changed("tick") {
				overrides.TickInterval = &tick
			}
			if cmd.Flags().Changed("debug") {
				overrides.Debug = &debug
			}

			cfg, err := config.Load(overrides)
			if err != nil {
				return err
			}
			env.config = cfg
			env.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&home, "home", "", "Data directory (default $INTERVALTIMER_HOME or the user config dir)")
	cmd.PersistentFlags().DurationVar(&tick, "tick", time.Second, "Countdown tick interval")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newWorkoutsCmd(env))
	cmd.AddCommand(newRunCmd(env))
	return cmd
}
