// SPDX-License-Identifier: AGPL-3.0-only
package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/Traves-Theberge/Tasky/internal/config"
	"github.com/Traves-Theberge/Tasky/internal/errors"
	"github.com/Traves-Theberge/Tasky/internal/logging"
)

// attempt is one entry in an ordered fallback chain. Each attempt carries
// its own timeout; on failure or timeout the next attempt runs.
type attempt struct {
	name    string
	timeout time.Duration
	run     func(ctx context.Context) error
}

// tryInOrder runs attempts in sequence until one succeeds or the list is
// exhausted. It returns the name of the successful attempt, or the error of
// the last failure.
func tryInOrder(ctx context.Context, attempts []attempt) (string, error) {
	var lastErr error
	for _, a := range attempts {
		err := runAttempt(ctx, a)
		if err == nil {
			return a.name, nil
		}
		lastErr = errors.DeliveryFailed(a.name, err)
		if ctx.Err() != nil {
			return "", lastErr
		}
	}
	if lastErr == nil {
		lastErr = errors.DeliveryFailed("none", fmt.Errorf("no attempts configured"))
	}
	return "", lastErr
}

func runAttempt(ctx context.Context, a attempt) error {
	if a.timeout > 0 {
		actx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		return a.run(actx)
	}
	return a.run(ctx)
}

// Sound plays the notification cue. Play blocks until a backend succeeds
// or every backend fails; it never returns an error to the caller.
type Sound interface {
	Play(ctx context.Context)
}

// SoundPlayer plays the notification cue through a cascade of backends:
// an external player process, the system beep, and an ASCII bell as the
// last resort. Total failure is logged and never fatal.
type SoundPlayer struct {
	cfg    config.SoundConfig
	logger *logging.Logger
}

// NewSoundPlayer creates a sound player with the given configuration.
func NewSoundPlayer(cfg config.SoundConfig, logger *logging.Logger) *SoundPlayer {
	if logger == nil {
		logger = logging.GetDefaultLogger()
	}
	return &SoundPlayer{cfg: cfg, logger: logger}
}

// Play runs the cascade. It blocks until a backend succeeds or all fail,
// bounded by the per-attempt timeouts; callers that must not wait run it in
// a goroutine.
func (p *SoundPlayer) Play(ctx context.Context) {
	name, err := tryInOrder(ctx, p.attempts())
	if err != nil {
		p.logger.Warnf("all sound backends failed: %v", err)
		return
	}
	p.logger.Debugf("notification sound played via %s", name)
}

func (p *SoundPlayer) attempts() []attempt {
	var out []attempt

	if p.cfg.SoundFile != "" {
		out = append(out, attempt{
			name:    "player",
			timeout: p.cfg.PlayerTimeout.Std(),
			run:     p.runPlayer,
		})
	}

	out = append(out,
		attempt{
			name:    "beep",
			timeout: p.cfg.BeepTimeout.Std(),
			run: func(ctx context.Context) error {
				done := make(chan error, 1)
				go func() { done <- beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration) }()
				select {
				case err := <-done:
					return err
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		},
		attempt{
			name: "bell",
			run: func(context.Context) error {
				_, err := os.Stdout.WriteString("\a")
				return err
			},
		},
	)
	return out
}

// runPlayer shells out to an audio player with the configured sound file.
func (p *SoundPlayer) runPlayer(ctx context.Context) error {
	bin, args := p.playerCommand()
	if bin == "" {
		return fmt.Errorf("no audio player available on %s", runtime.GOOS)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	return cmd.Run()
}

func (p *SoundPlayer) playerCommand() (string, []string) {
	if p.cfg.PlayerCommand != "" {
		return p.cfg.PlayerCommand, []string{p.cfg.SoundFile}
	}
	switch runtime.GOOS {
	case "darwin":
		return "afplay", []string{p.cfg.SoundFile}
	case "windows":
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync();", p.cfg.SoundFile)
		return "powershell", []string{"-WindowStyle", "Hidden", "-Command", script}
	default:
		return "paplay", []string{p.cfg.SoundFile}
	}
}
