package inject

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable marks a strategy that cannot run in this environment
	// (missing tool, missing device). The chain skips it silently.
	ErrUnavailable = errors.New("injection strategy unavailable")

	// ErrInjectionFailed indicates every strategy in the chain failed.
	ErrInjectionFailed = errors.New("all injection strategies failed")
)

// Strategy is one mechanism for typing text into the focused window.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, text string) error
}

// Chain tries strategies in order until one fully completes. Strategies are
// never run in parallel: only one may win, and duplicate keystrokes must
// never be emitted.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, logger: logger}
}

// Inject runs the fallback chain and returns the name of the strategy that
// succeeded.
func (c *Chain) Inject(ctx context.Context, text string) (string, error) {
	for _, strategy := range c.strategies {
		err := strategy.Attempt(ctx, text)
		if err == nil {
			c.logger.Info("text injected", zap.String("strategy", strategy.Name()))
			return strategy.Name(), nil
		}
		if errors.Is(err, ErrUnavailable) {
			c.logger.Debug("injection strategy unavailable", zap.String("strategy", strategy.Name()))
			continue
		}
		c.logger.Warn("injection strategy failed",
			zap.String("strategy", strategy.Name()),
			zap.Error(err),
		)
	}
	return "", ErrInjectionFailed
}
