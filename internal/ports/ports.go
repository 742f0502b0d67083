package ports

import (
	"context"

	"voxtype/internal/domain"
)

// RecorderConfig describes how the microphone should be captured.
type RecorderConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
	OutputPath  string
}

// RecordingSession is a live capture session. Stop finalizes the capture and
// returns the path of the written WAV file.
type RecordingSession interface {
	Stop() (string, error)
}

// Recorder creates microphone capture sessions.
type Recorder interface {
	Start(ctx context.Context, cfg RecorderConfig) (RecordingSession, error)
}

// SpeechGenerator performs one transcription request with one credential.
type SpeechGenerator interface {
	Generate(ctx context.Context, apiKey string, audioPath string) (string, error)
}

// Transcriber turns a recorded clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Injector delivers text as synthetic input into the focused window. On
// success it reports the name of the strategy that completed.
type Injector interface {
	Inject(ctx context.Context, text string) (string, error)
}

// Notifier dispatches best-effort user feedback.
type Notifier interface {
	Notify(event domain.FeedbackEvent, message string)
}
