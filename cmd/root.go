package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxtype/internal/bootstrap"
	"voxtype/internal/domain"
)

// version is stamped at release time with
// -ldflags "-X voxtype/cmd.version=...".
var version = "dev"

var (
	verbose        bool
	modelOverride  string
	requestTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "voxtype",
	Short: "Record speech and type the transcript into the focused window",
	Long: `Voxtype records the microphone until it receives SIGINT or SIGTERM,
transcribes the clip with Google Gemini (rotating across configured API keys
on transient failures), and types the result into the focused window using
uinput, wtype, ydotool, or a clipboard paste, in that order.

Bind it to a desktop hotkey and stop recording with a second keypress that
signals the process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDictation,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.Flags().StringVar(&modelOverride, "model", "", "Gemini model (overrides VOXTYPE_GEMINI_MODEL)")
	rootCmd.Flags().DurationVar(&requestTimeout, "timeout", 0, "per-request transcription timeout (overrides VOXTYPE_REQUEST_TIMEOUT_MS)")
}

func Execute() error {
	return rootCmd.Execute()
}

func runDictation(cmd *cobra.Command, _ []string) error {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	services, err := bootstrap.Build(logger, bootstrap.Options{
		Model:          modelOverride,
		RequestTimeout: requestTimeout,
	})
	if err != nil {
		return err
	}

	logger.Info("loaded api keys", zap.Int("count", services.Pool.Size()))
	if services.Pool.Size() == 0 {
		logger.Error("no api key configured, set GOOGLE_API_KEY in the environment or .env")
		services.Notifier.Notify(domain.FeedbackError, "No API key configured")
		return fmt.Errorf("no api keys configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Runtime failures already produced their error notification; the run
	// completed and cleaned up, so exit quietly like a dictation that
	// heard nothing.
	if _, err := services.Controller.Run(ctx); err != nil {
		logger.Error("dictation run failed", zap.Error(err))
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
