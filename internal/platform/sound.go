package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/afero"

	"intervaltimer/internal/cue"
	"intervaltimer/internal/logging"
)

// CommandSink plays cues by rendering them to a temporary WAV file and handing
// it to a command line audio player.
type CommandSink struct {
	fs     afero.Fs
	player func(ctx context.Context, path string) *exec.Cmd
}

// NewSink returns a sink using the platform audio player, or a terminal bell
// when no player is installed.
func NewSink(logger logging.Logger) cue.Sink {
	if logger == nil {
		logger = logging.Nop()
	}
	player, err := audioPlayer()
	if err != nil {
		logger.Warn("audio player unavailable, falling back to terminal bell: %v", err)
		return cue.BellSink{Output: os.Stderr}
	}
	return &CommandSink{fs: afero.NewOsFs(), player: player}
}

func (sink *CommandSink) Play(ctx context.Context, tones []cue.Tone) error {
	file, err := afero.TempFile(sink.fs, "", "intervaltimer-*.wav")
	if err != nil {
		return fmt.Errorf("create cue file: %w", err)
	}
	path := file.Name()
	defer func() {
		_ = sink.fs.Remove(path)
	}()

	if _, err := file.Write(cue.EncodeWAV(tones)); err != nil {
		_ = file.Close()
		return fmt.Errorf("write cue file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close cue file: %w", err)
	}

	command := sink.player(ctx, path)
	if output, err := command.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", command.Path, err, output)
	}
	return nil
}
