package inject

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandStrategy types text by handing it to an external tool as a single
// trailing argument. Used for both the compositor typer (wtype) and the
// input-daemon typer (ydotool type).
type CommandStrategy struct {
	name    string
	command string
	prefix  []string
	timeout time.Duration
}

// NewCompositorType builds the wtype-style strategy: the whole text is the
// only argument.
func NewCompositorType(command string, timeout time.Duration) *CommandStrategy {
	if command == "" {
		command = "wtype"
	}
	return newCommandStrategy("compositor-type", command, nil, timeout)
}

// NewDaemonType builds the ydotool-style strategy, which needs its "type"
// subcommand and a running daemon.
func NewDaemonType(command string, timeout time.Duration) *CommandStrategy {
	if command == "" {
		command = "ydotool"
	}
	return newCommandStrategy("daemon-type", command, []string{"type"}, timeout)
}

func newCommandStrategy(name, command string, prefix []string, timeout time.Duration) *CommandStrategy {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CommandStrategy{name: name, command: command, prefix: prefix, timeout: timeout}
}

func (s *CommandStrategy) Name() string { return s.name }

func (s *CommandStrategy) Attempt(ctx context.Context, text string) error {
	if _, err := exec.LookPath(s.command); err != nil {
		return fmt.Errorf("%w: %s not found", ErrUnavailable, s.command)
	}

	args := append(append([]string{}, s.prefix...), text)
	return runTool(ctx, s.timeout, s.command, args...)
}

// runTool executes an injection tool with a bounded timeout, surfacing its
// stderr on failure.
func runTool(ctx context.Context, timeout time.Duration, command string, args ...string) error {
	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(toolCtx, command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(toolCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out after %s", command, timeout)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s failed: %w: %s", command, err, detail)
		}
		return fmt.Errorf("%s failed: %w", command, err)
	}
	return nil
}
