//go:build !linux

package inject

import (
	"context"

	"go.uber.org/zap"
)

// UinputStrategy is only implemented on Linux.
type UinputStrategy struct{}

func NewUinputStrategy(_ UinputConfig, _ *zap.Logger) *UinputStrategy {
	return &UinputStrategy{}
}

func (s *UinputStrategy) Name() string { return "uinput" }

func (s *UinputStrategy) Attempt(_ context.Context, _ string) error {
	return ErrUnavailable
}
