package bootstrap

import (
	"time"

	"go.uber.org/zap"

	"voxtype/internal/audio"
	"voxtype/internal/config"
	"voxtype/internal/inject"
	"voxtype/internal/keypool"
	"voxtype/internal/notify"
	"voxtype/internal/ports"
	"voxtype/internal/providers/gemini"
	"voxtype/internal/transcribe"
	"voxtype/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.Controller
	Pool       *keypool.Pool
	Notifier   ports.Notifier
	Config     config.Config
}

// Options carries command-line overrides applied on top of the environment
// configuration. Zero values leave the configured setting alone.
type Options struct {
	Model          string
	RequestTimeout time.Duration
}

// Build wires all dependencies for one dictation run.
func Build(logger *zap.Logger, opts Options) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	if opts.Model != "" {
		cfg.Gemini.Model = opts.Model
	}
	if opts.RequestTimeout > 0 {
		cfg.Gemini.RequestTimeout = opts.RequestTimeout
	}

	pool := keypool.New(cfg.Gemini.APIKeys)

	generator := gemini.NewClient(gemini.Config{
		Model:  cfg.Gemini.Model,
		Prompt: cfg.Gemini.Prompt,
	}, logger)

	transcriber := transcribe.New(pool, generator, logger, transcribe.Config{
		RequestTimeout: cfg.Gemini.RequestTimeout,
		RetryBackoff:   cfg.Gemini.RetryBackoff,
	})

	chain := inject.NewChain(logger,
		inject.NewUinputStrategy(inject.UinputConfig{
			KeyDelay:    cfg.Inject.KeyDelay,
			SettleDelay: cfg.Inject.SettleDelay,
		}, logger),
		inject.NewCompositorType(cfg.Inject.CompositorTool, cfg.Inject.TypeTimeout),
		inject.NewDaemonType(cfg.Inject.DaemonTool, cfg.Inject.TypeTimeout),
		inject.NewClipboardPaste(cfg.Inject.CompositorTool, cfg.Inject.ClipboardTimeout),
	)

	notifier := notify.NewDesktopNotifier(cfg.Notify.SoundCommand, logger)

	controller := usecase.NewController(
		audio.NewFFMPEGRecorder(cfg.Audio.RecorderCommand),
		transcriber,
		chain,
		notifier,
		logger,
		usecase.Config{
			Audio: ports.RecorderConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
				OutputPath:  cfg.Audio.FilePath,
			},
		},
	)

	return Services{Controller: controller, Pool: pool, Notifier: notifier, Config: cfg}, nil
}
