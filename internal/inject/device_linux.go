//go:build linux

package inject

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/micmonay/keybd_event"
	"go.uber.org/zap"
)

// UinputStrategy emits real key events through a virtual uinput device. It
// needs no compositor support and the resulting keystrokes are
// indistinguishable from physical input.
type UinputStrategy struct {
	cfg    UinputConfig
	logger *zap.Logger
}

func NewUinputStrategy(cfg UinputConfig, logger *zap.Logger) *UinputStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UinputStrategy{cfg: cfg.withDefaults(), logger: logger}
}

func (s *UinputStrategy) Name() string { return "uinput" }

func (s *UinputStrategy) Attempt(ctx context.Context, text string) error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrDevicePermission, err)
		}
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: uinput module not loaded", ErrUnavailable)
		}
		return fmt.Errorf("failed to open uinput device: %w", err)
	}

	// Let the compositor pick up the freshly registered device.
	select {
	case <-time.After(s.cfg.SettleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	strokes, skipped := plan(text)
	for _, stroke := range strokes {
		if err := ctx.Err(); err != nil {
			return err
		}
		kb.Clear()
		kb.SetKeys(stroke.Code)
		kb.HasSHIFT(stroke.Shift)
		if err := kb.Launching(); err != nil {
			return fmt.Errorf("failed to emit key event: %w", err)
		}
		time.Sleep(s.cfg.KeyDelay)
	}

	if skipped > 0 {
		s.logger.Warn("skipped unsupported characters",
			zap.Int("skipped", skipped),
			zap.Int("typed", len(strokes)),
		)
	}
	return nil
}
