package watchdog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/webostools/tvbridge/internal/commands"
	"github.com/webostools/tvbridge/internal/logx"
	"github.com/webostools/tvbridge/internal/metrics"
)

// Session is the slice of the TV facade the watchdog needs.
type Session interface {
	Registered() bool
	SoundOutput(ctx context.Context) (string, error)
	SetSoundOutput(ctx context.Context, output string) error
}

// neutralOutput is the fallback used by the triple-correction quirk.
const neutralOutput = "tv_speaker"

// Watchdog keeps the TV's sound output pinned to a desired value. Some
// firmwares revert the setting after HDMI-ARC renegotiation and do not
// push a change notification, so the watchdog polls and re-asserts
// rather than subscribing.
type Watchdog struct {
	tv          Session
	interval    time.Duration
	quirkTriple bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	desired string
}

// New builds a Watchdog polling at the given interval. quirkTriple
// enables the desired/neutral/desired correction sequence on failed
// corrections, a workaround observed to help on some firmwares.
func New(tv Session, interval time.Duration, quirkTriple bool) *Watchdog {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watchdog{tv: tv, interval: interval, quirkTriple: quirkTriple}
}

// Start begins enforcing the desired sound output, cancelling any
// previously running task first. Unknown output values are rejected
// without scheduling anything.
func (w *Watchdog) Start(desired string) error {
	if !commands.ValidSoundOutput(desired) {
		return fmt.Errorf("unknown sound output %q (valid: %s)", desired, strings.Join(commands.SoundOutputs, ", "))
	}

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.desired = desired
	w.mu.Unlock()

	logx.Log.Info().Str("output", desired).Dur("interval", w.interval).Msg("sound output watchdog started")
	go w.run(ctx, desired)
	return nil
}

// Stop cancels the running task. It is a no-op when none is running.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
		logx.Log.Info().Msg("sound output watchdog stopped")
	}
	w.mu.Unlock()
}

// Desired returns the output currently being enforced, empty when the
// watchdog is stopped.
func (w *Watchdog) Desired() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel == nil {
		return ""
	}
	return w.desired
}

func (w *Watchdog) run(ctx context.Context, desired string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx, desired)
		}
	}
}

// tick performs one poll. Errors are logged and swallowed; the next tick
// retries on its own.
func (w *Watchdog) tick(ctx context.Context, desired string) {
	if !w.tv.Registered() {
		return
	}
	current, err := w.tv.SoundOutput(ctx)
	if err != nil {
		logx.Log.Warn().Err(err).Msg("watchdog poll failed")
		return
	}
	if current == desired {
		return
	}
	logx.Log.Info().Str("current", current).Str("desired", desired).Msg("sound output drifted; correcting")
	metrics.IncWatchdogCorrection()
	if err := w.tv.SetSoundOutput(ctx, desired); err == nil {
		return
	} else if !w.quirkTriple {
		logx.Log.Warn().Err(err).Msg("sound output correction failed")
		return
	}
	// Quirk mode: bounce through the internal speaker before re-asserting
	// the desired output.
	for _, out := range []string{desired, neutralOutput, desired} {
		if err := w.tv.SetSoundOutput(ctx, out); err != nil {
			logx.Log.Warn().Err(err).Str("output", out).Msg("quirk correction step failed")
		}
	}
}
