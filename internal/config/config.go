package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for one dictation run.
type Config struct {
	Gemini GeminiConfig
	Audio  AudioConfig
	Inject InjectConfig
	Notify NotifyConfig
}

type GeminiConfig struct {
	APIKeys        []string
	Model          string
	Prompt         string
	RequestTimeout time.Duration
	RetryBackoff   time.Duration
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
	FilePath        string
}

type InjectConfig struct {
	KeyDelay         time.Duration
	SettleDelay      time.Duration
	CompositorTool   string
	DaemonTool       string
	TypeTimeout      time.Duration
	ClipboardTimeout time.Duration
}

type NotifyConfig struct {
	SoundCommand string
}

// Load resolves configuration from environment variables and defaults.
func Load() (Config, error) {
	cfg := Config{
		Gemini: GeminiConfig{
			APIKeys:        loadAPIKeys(),
			Model:          envOrDefault("VOXTYPE_GEMINI_MODEL", "gemini-2.5-flash"),
			Prompt:         strings.TrimSpace(os.Getenv("VOXTYPE_PROMPT")),
			RequestTimeout: envOrDefaultDuration("VOXTYPE_REQUEST_TIMEOUT_MS", 60*time.Second),
			RetryBackoff:   envOrDefaultDuration("VOXTYPE_RETRY_BACKOFF_MS", 500*time.Millisecond),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("VOXTYPE_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("VOXTYPE_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("VOXTYPE_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("VOXTYPE_SAMPLE_RATE", 16000),
			Channels:        envOrDefaultInt("VOXTYPE_CHANNELS", 1),
			FilePath:        envOrDefault("VOXTYPE_AUDIO_FILE", "/tmp/voxtype_recording.wav"),
		},
		Inject: InjectConfig{
			KeyDelay:         envOrDefaultDuration("VOXTYPE_KEY_DELAY_MS", 10*time.Millisecond),
			SettleDelay:      envOrDefaultDuration("VOXTYPE_SETTLE_DELAY_MS", 100*time.Millisecond),
			CompositorTool:   envOrDefault("VOXTYPE_TYPE_TOOL", "wtype"),
			DaemonTool:       envOrDefault("VOXTYPE_DAEMON_TOOL", "ydotool"),
			TypeTimeout:      envOrDefaultDuration("VOXTYPE_TYPE_TIMEOUT_MS", 5*time.Second),
			ClipboardTimeout: envOrDefaultDuration("VOXTYPE_CLIPBOARD_TIMEOUT_MS", 2*time.Second),
		},
		Notify: NotifyConfig{
			SoundCommand: envOrDefault("VOXTYPE_SOUND_COMMAND", "canberra-gtk-play"),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}

	return cfg, nil
}

// loadAPIKeys merges the primary slot, numbered slots, and the comma list,
// preserving order and discarding duplicates. Numbered slots stop at the
// first gap.
func loadAPIKeys() []string {
	var keys []string

	if primary := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); primary != "" {
		keys = append(keys, primary)
	}

	for index := 2; ; index++ {
		key := strings.TrimSpace(os.Getenv(fmt.Sprintf("GOOGLE_API_KEY_%d", index)))
		if key == "" {
			break
		}
		keys = append(keys, key)
	}

	if list := os.Getenv("GOOGLE_API_KEYS"); list != "" {
		for _, key := range strings.Split(list, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}

	return dedupe(keys)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return time.Duration(parsed) * time.Millisecond
}
