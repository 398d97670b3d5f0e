package cue

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/logging"
)

// Sink turns a tone sequence into sound. Play blocks until the sequence ends
// or ctx is cancelled.
type Sink interface {
	Play(ctx context.Context, tones []Tone) error
}

// Vibrator renders a haptic pattern.
type Vibrator interface {
	Vibrate(pattern []time.Duration)
}

// Notifier shows a system notification.
type Notifier interface {
	Notify(title, body string)
}

const queueSize = 8

// Player maps timer cue signals to tones, vibration and notifications. Signals
// arrive on the driver goroutine and are played on the Player's own worker so
// the countdown never waits for audio.
type Player struct {
	mu            sync.Mutex
	sink          Sink
	vibrator      Vibrator
	notifier      Notifier
	logger        logging.Logger
	soundEnabled  bool
	notifyEnabled bool
	pending       int
	queue         chan Cue
	cancel        context.CancelFunc
	done          chan struct{}
}

var _ timer.CueListener = (*Player)(nil)

// NewPlayer creates a Player writing to sink. Sound and notifications start enabled.
func NewPlayer(sink Sink, logger logging.Logger) *Player {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Player{
		sink:          sink,
		logger:        logger,
		soundEnabled:  true,
		notifyEnabled: true,
		queue:         make(chan Cue, queueSize),
	}
}

// SetVibrator attaches a haptic collaborator.
func (player *Player) SetVibrator(vibrator Vibrator) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.vibrator = vibrator
}

// SetNotifier attaches a notification collaborator.
func (player *Player) SetNotifier(notifier Notifier) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.notifier = notifier
}

// SetSoundEnabled toggles audio output.
func (player *Player) SetSoundEnabled(enabled bool) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.soundEnabled = enabled
}

// SoundEnabled reports whether audio output is on.
func (player *Player) SoundEnabled() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.soundEnabled
}

// SetNotificationsEnabled toggles the completion notification.
func (player *Player) SetNotificationsEnabled(enabled bool) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.notifyEnabled = enabled
}

// Start launches the playback worker.
func (player *Player) Start() {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	player.cancel = cancel
	player.done = make(chan struct{})
	go player.run(ctx, player.done)
}

// Close stops the worker, interrupting any tone in progress.
func (player *Player) Close() {
	player.mu.Lock()
	cancel, done := player.cancel, player.done
	player.cancel = nil
	player.done = nil
	player.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	player.mu.Lock()
	defer player.mu.Unlock()
	for {
		select {
		case <-player.queue:
		default:
			player.pending = 0
			return
		}
	}
}

// Drain waits until every queued cue has played or timeout passes. It reports
// whether the queue emptied in time.
func (player *Player) Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		player.mu.Lock()
		pending := player.pending
		player.mu.Unlock()
		if pending == 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (player *Player) OnPhaseStart(timer.Snapshot) {
	player.signal(StartCue)
}

func (player *Player) OnPhaseTransition(timer.Snapshot) {
	player.signal(TransitionCue)
}

func (player *Player) OnWorkoutComplete(snapshot timer.Snapshot) {
	player.signal(CompletionCue)

	player.mu.Lock()
	notifier, enabled := player.notifier, player.notifyEnabled
	player.mu.Unlock()
	if notifier != nil && enabled {
		notifier.Notify("Workout Complete!", Summary(snapshot))
	}
}

// Summary describes a finished workout in one line.
func Summary(snapshot timer.Snapshot) string {
	config := snapshot.Config
	name := strings.TrimSpace(config.Name)
	if name == "" {
		name = "Workout"
	}
	if config.Mode == model.ModeEMOM {
		return fmt.Sprintf("%s: %d x %s EMOM in %s", name, snapshot.TotalRounds,
			model.FormatClock(config.IntervalTime), model.FormatDuration(config.TotalTime))
	}
	return fmt.Sprintf("%s: %d rounds of %s work / %s rest in %s", name, snapshot.TotalRounds,
		model.FormatClock(config.WorkTime), model.FormatClock(config.RestTime), model.FormatDuration(config.TotalTime))
}

func (player *Player) signal(cue Cue) {
	player.mu.Lock()
	vibrator := player.vibrator
	select {
	case player.queue <- cue:
		player.pending++
	default:
		player.logger.Debug("cue queue full, dropping %s", cue.Name)
	}
	player.mu.Unlock()

	if vibrator != nil {
		vibrator.Vibrate(cue.Vibration)
	}
}

func (player *Player) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case cue := <-player.queue:
			player.play(ctx, cue)
			player.mu.Lock()
			if player.pending > 0 {
				player.pending--
			}
			player.mu.Unlock()
		}
	}
}

func (player *Player) play(ctx context.Context, cue Cue) {
	if player.sink == nil || !player.SoundEnabled() {
		return
	}
	if err := player.sink.Play(ctx, cue.Tones); err != nil && ctx.Err() == nil {
		player.logger.Warn("play %s cue: %v", cue.Name, err)
	}
}

// BellSink rings the terminal bell once per tone. It is the fallback when no
// audio player is available.
type BellSink struct {
	Output io.Writer
}

func (sink BellSink) Play(ctx context.Context, tones []Tone) error {
	for _, tone := range tones {
		if _, err := io.WriteString(sink.Output, "\a"); err != nil {
			return fmt.Errorf("ring bell: %w", err)
		}
		wait := time.NewTimer(tone.Duration + tone.Gap)
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-wait.C:
		}
	}
	return nil
}
