package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxtype/internal/keypool"
	"voxtype/internal/ports"
)

var (
	// ErrNoKeysAvailable indicates every configured key is marked failed
	// and selection could not recover.
	ErrNoKeysAvailable = errors.New("no api keys available")

	// ErrAllKeysExhausted indicates the retry budget was spent without a
	// successful transcription.
	ErrAllKeysExhausted = errors.New("all api keys exhausted")

	// ErrEmptyTranscription indicates the provider answered with no text.
	ErrEmptyTranscription = errors.New("empty transcription received")
)

// Config controls retry behavior.
type Config struct {
	RequestTimeout time.Duration
	RetryBackoff   time.Duration
}

// Transcriber obtains text for a recorded clip with credential rotation:
// retryable failures mark the key failed and move on to another one, fatal
// failures abort immediately.
type Transcriber struct {
	pool      *keypool.Pool
	generator ports.SpeechGenerator
	logger    *zap.Logger
	cfg       Config
}

func New(pool *keypool.Pool, generator ports.SpeechGenerator, logger *zap.Logger, cfg Config) *Transcriber {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	return &Transcriber{pool: pool, generator: generator, logger: logger, cfg: cfg}
}

// Transcribe runs up to Remaining() attempts, one credential per attempt.
// The budget is a snapshot taken up front: keys reset by pool recovery during
// the run do not extend it.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	maxAttempts := t.pool.Remaining()
	if maxAttempts == 0 {
		return "", ErrNoKeysAvailable
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		key, err := t.pool.Select()
		if err != nil {
			if errors.Is(err, keypool.ErrNoKeysConfigured) {
				return "", ErrNoKeysAvailable
			}
			return "", err
		}

		t.logger.Info("transcription attempt",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
		)

		text, err := t.generate(ctx, key, audioPath)
		if err == nil {
			t.pool.MarkSucceeded(key)
			clean := strings.TrimSpace(text)
			if clean == "" {
				return "", ErrEmptyTranscription
			}
			t.logger.Info("transcription successful", zap.Int("length", len(clean)))
			return clean, nil
		}

		lastErr = err
		if !Retryable(err) {
			t.logger.Error("non-retryable api error", zap.Error(err))
			return "", fmt.Errorf("transcription failed: %w", err)
		}

		t.pool.MarkFailed(key)
		remaining := t.pool.Remaining()
		t.logger.Warn("retryable api error",
			zap.Error(err),
			zap.Int("remaining_keys", remaining),
		)

		if attempt < maxAttempts && remaining > 0 {
			select {
			case <-time.After(t.cfg.RetryBackoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	t.logger.Error("transcription failed after all attempts",
		zap.Int("attempts", maxAttempts),
		zap.Error(lastErr),
	)
	return "", fmt.Errorf("%w after %d attempts: %v", ErrAllKeysExhausted, maxAttempts, lastErr)
}

func (t *Transcriber) generate(ctx context.Context, key string, audioPath string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, t.cfg.RequestTimeout)
	defer cancel()
	return t.generator.Generate(reqCtx, key, audioPath)
}
