package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"intervaltimer/internal/app"
	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/cue"
)

func newRunCmd(env *environment) *cobra.Command {
	var (
		mute  bool
		flags workoutFlags
	)

	cmd := &cobra.Command{
		Use:   "run [id]",
		Short: "Run a workout in the terminal",
		Long: `Run a saved workout, or the last edited one when no id is given.
Workout flags override the loaded values. Ctrl-C resets the timer and exits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := app.New(app.Dependencies{
				Fs:       env.fs,
				Config:   env.config,
				WakeLock: env.newWakeLock(),
				Logger:   env.logger,
			})
			if err != nil {
				return err
			}
			defer controller.Shutdown()

			if len(args) == 1 {
				if _, err := controller.LoadWorkout(args[0]); err != nil {
					return err
				}
			}
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			if patch != (model.ConfigPatch{}) {
				controller.SetConfig(patch)
			}

			player := cue.NewPlayer(env.newSink(env.logger), env.logger)
			player.SetSoundEnabled(controller.Preferences().SoundEnabled && !mute)
			player.Start()
			defer player.Close()
			controller.AddCueListener(player)

			finished := make(chan timer.Snapshot, 1)
			controller.AddCueListener(timer.CueFuncs{WorkoutComplete: func(snapshot timer.Snapshot) {
				finished <- snapshot
			}})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events := controller.Subscribe(16)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cue.Summary(controller.Snapshot()))
			controller.Start()

			for {
				select {
				case <-ctx.Done():
					controller.Reset()
					fmt.Fprintln(out)
					fmt.Fprintln(out, "Reset.")
					return nil
				case snapshot := <-finished:
					printProgress(out, snapshot)
					fmt.Fprintln(out)
					fmt.Fprintln(out, snapshot.StatusMessage())
					player.Drain(cue.CompletionCue.Length() + time.Second)
					return nil
				case event := <-events:
					if event.Type == timer.EventProgress || event.Type == timer.EventPhaseStart {
						printProgress(out, event.Snapshot)
					}
				}
			}
		},
	}
	cmd.Flags().BoolVar(&mute, "mute", false, "Do not play sounds")
	flags.register(cmd)
	return cmd
}

func printProgress(out io.Writer, snapshot timer.Snapshot) {
	label := model.PhaseLabel(snapshot.Phase)
	if snapshot.Status == model.StatusCompleted {
		label = "DONE"
	}
	fmt.Fprintf(out, "\r%-5s %s  %-24s %s remaining  %3.0f%%",
		label,
		snapshot.Clock(),
		snapshot.StatusMessage(),
		model.FormatClock(snapshot.TotalTimeRemaining),
		snapshot.TotalProgress,
	)
}
