package inject

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"
)

// ClipboardPasteStrategy copies the text into the system clipboard and then
// simulates a ctrl+V chord through the compositor tool. Last resort: it
// clobbers whatever the clipboard held, and the old content is not restored.
type ClipboardPasteStrategy struct {
	pasteCommand string
	timeout      time.Duration
	writeText    func(string) error
}

func NewClipboardPaste(pasteCommand string, timeout time.Duration) *ClipboardPasteStrategy {
	if pasteCommand == "" {
		pasteCommand = "wtype"
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ClipboardPasteStrategy{
		pasteCommand: pasteCommand,
		timeout:      timeout,
		writeText:    clipboard.WriteAll,
	}
}

func (s *ClipboardPasteStrategy) Name() string { return "clipboard-paste" }

func (s *ClipboardPasteStrategy) Attempt(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility", ErrUnavailable)
	}
	if _, err := exec.LookPath(s.pasteCommand); err != nil {
		return fmt.Errorf("%w: %s not found", ErrUnavailable, s.pasteCommand)
	}

	if err := s.copy(ctx, text); err != nil {
		return err
	}

	// ctrl down, tap v, ctrl up.
	return runTool(ctx, s.timeout, s.pasteCommand, "-M", "ctrl", "-P", "v", "-m", "ctrl")
}

// copy bounds the clipboard write like the paste chord: a hung clipboard
// helper must not stall the whole chain.
func (s *ClipboardPasteStrategy) copy(ctx context.Context, text string) error {
	copyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.writeText(text) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("clipboard write failed: %w", err)
		}
		return nil
	case <-copyCtx.Done():
		return fmt.Errorf("clipboard write timed out after %s", s.timeout)
	}
}
