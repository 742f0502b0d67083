package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxtype/internal/domain"
	"voxtype/internal/ports"
)

// Config controls one dictation run.
type Config struct {
	Audio ports.RecorderConfig
}

// Controller drives a single record, transcribe, inject cycle. Recording runs
// until ctx is cancelled (the stop signal); transcription and injection then
// run to completion regardless of that cancellation.
type Controller struct {
	recorder    ports.Recorder
	transcriber ports.Transcriber
	injector    ports.Injector
	notifier    ports.Notifier
	logger      *zap.Logger
	cfg         Config
}

func NewController(
	recorder ports.Recorder,
	transcriber ports.Transcriber,
	injector ports.Injector,
	notifier ports.Notifier,
	logger *zap.Logger,
	cfg Config,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		recorder:    recorder,
		transcriber: transcriber,
		injector:    injector,
		notifier:    notifier,
		logger:      logger,
		cfg:         cfg,
	}
}

// Run executes one dictation cycle. The recorded clip is removed on every
// exit path. Terminal failures emit exactly one error notification.
func (c *Controller) Run(ctx context.Context) (domain.RunResult, error) {
	runID := uuid.NewString()
	logger := c.logger.With(zap.String("run_id", runID))

	// A leftover clip from an aborted run must not be transcribed.
	c.cleanup(logger, c.cfg.Audio.OutputPath)

	// Recording lifetime is controlled through session.Stop, not through
	// context cancellation; ctx only marks the moment to stop.
	session, err := c.recorder.Start(context.WithoutCancel(ctx), c.cfg.Audio)
	if err != nil {
		c.fail(logger, fmt.Errorf("failed to start recording: %w", err))
		return domain.RunResult{}, err
	}

	c.notifier.Notify(domain.FeedbackRecordingStarted, "")
	logger.Info("recording started")

	// Block until the stop signal cancels the context.
	<-ctx.Done()

	c.notifier.Notify(domain.FeedbackRecordingStopped, "")

	audioPath, err := session.Stop()
	if audioPath != "" {
		defer c.cleanup(logger, audioPath)
	}
	if err != nil {
		c.fail(logger, fmt.Errorf("failed to finalize recording: %w", err))
		return domain.RunResult{}, err
	}
	logger.Info("recording stopped", zap.String("audio_path", audioPath))

	// The stop signal only ends the recording phase; from here on the run
	// is not cancellable.
	workCtx := context.WithoutCancel(ctx)

	text, err := c.transcriber.Transcribe(workCtx, audioPath)
	if err != nil {
		c.fail(logger, fmt.Errorf("transcription failed: %w", err))
		return domain.RunResult{}, err
	}

	strategy, err := c.injector.Inject(workCtx, text)
	if err != nil {
		c.fail(logger, errors.New("failed to type text, check uinput permissions"))
		return domain.RunResult{Text: text}, err
	}

	c.notifier.Notify(domain.FeedbackDone, text)
	logger.Info("dictation complete",
		zap.Int("length", len(text)),
		zap.String("strategy", strategy),
	)
	return domain.RunResult{Text: text, Injected: true, Strategy: strategy}, nil
}

func (c *Controller) fail(logger *zap.Logger, err error) {
	logger.Error("run failed", zap.Error(err))
	c.notifier.Notify(domain.FeedbackError, err.Error())
}

func (c *Controller) cleanup(logger *zap.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove audio file", zap.String("path", path), zap.Error(err))
	}
}
