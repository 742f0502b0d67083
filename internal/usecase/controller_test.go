package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"voxtype/internal/domain"
	"voxtype/internal/ports"
)

type fakeSession struct {
	path    string
	stopErr error
}

func (s *fakeSession) Stop() (string, error) {
	if s.stopErr != nil {
		return "", s.stopErr
	}
	if err := os.WriteFile(s.path, []byte("RIFF"), 0o600); err != nil {
		return "", err
	}
	return s.path, nil
}

type fakeRecorder struct {
	session  *fakeSession
	startErr error
}

func (r *fakeRecorder) Start(_ context.Context, _ ports.RecorderConfig) (ports.RecordingSession, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	return r.session, nil
}

type fakeTranscriber struct {
	text string
	err  error
	path string
}

func (t *fakeTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	t.path = audioPath
	return t.text, t.err
}

type fakeInjector struct {
	strategy string
	err      error
	text     string
	calls    int
}

func (i *fakeInjector) Inject(_ context.Context, text string) (string, error) {
	i.calls++
	i.text = text
	if i.err != nil {
		return "", i.err
	}
	return i.strategy, nil
}

type fakeNotifier struct {
	events   []domain.FeedbackEvent
	messages []string
}

func (n *fakeNotifier) Notify(event domain.FeedbackEvent, message string) {
	n.events = append(n.events, event)
	n.messages = append(n.messages, message)
}

func (n *fakeNotifier) count(event domain.FeedbackEvent) int {
	total := 0
	for _, e := range n.events {
		if e == event {
			total++
		}
	}
	return total
}

// stoppedContext simulates the stop signal having already fired, so Run moves
// straight from recording to transcription.
func stoppedContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func newController(rec *fakeRecorder, tr *fakeTranscriber, inj *fakeInjector, n *fakeNotifier, audioPath string) *Controller {
	return NewController(rec, tr, inj, n, zap.NewNop(), Config{
		Audio: ports.RecorderConfig{OutputPath: audioPath},
	})
}

func TestRunFullCycle(t *testing.T) {
	t.Parallel()

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	recorder := &fakeRecorder{session: &fakeSession{path: audioPath}}
	transcriber := &fakeTranscriber{text: "hello world"}
	injector := &fakeInjector{strategy: "uinput"}
	notifier := &fakeNotifier{}

	result, err := newController(recorder, transcriber, injector, notifier, audioPath).Run(stoppedContext())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Text != "hello world" || !result.Injected || result.Strategy != "uinput" {
		t.Fatalf("unexpected result %+v", result)
	}
	if transcriber.path != audioPath {
		t.Fatalf("transcriber got path %q, want %q", transcriber.path, audioPath)
	}
	if injector.text != "hello world" {
		t.Fatalf("injector got text %q", injector.text)
	}

	wantEvents := []domain.FeedbackEvent{
		domain.FeedbackRecordingStarted,
		domain.FeedbackRecordingStopped,
		domain.FeedbackDone,
	}
	if len(notifier.events) != len(wantEvents) {
		t.Fatalf("unexpected events %v", notifier.events)
	}
	for i, want := range wantEvents {
		if notifier.events[i] != want {
			t.Fatalf("event %d = %q, want %q", i, notifier.events[i], want)
		}
	}

	if _, err := os.Stat(audioPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("audio file not cleaned up")
	}
}

func TestRunTranscriptionFailureCleansUpAndNotifiesOnce(t *testing.T) {
	t.Parallel()

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	recorder := &fakeRecorder{session: &fakeSession{path: audioPath}}
	transcriber := &fakeTranscriber{err: errors.New("all api keys exhausted")}
	injector := &fakeInjector{}
	notifier := &fakeNotifier{}

	_, err := newController(recorder, transcriber, injector, notifier, audioPath).Run(stoppedContext())
	if err == nil {
		t.Fatalf("expected error")
	}

	if injector.calls != 0 {
		t.Fatalf("injector must not run after transcription failure")
	}
	if notifier.count(domain.FeedbackError) != 1 {
		t.Fatalf("expected exactly one error notification, got %d", notifier.count(domain.FeedbackError))
	}
	if _, err := os.Stat(audioPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("audio file not cleaned up after failure")
	}
}

func TestRunInjectionFailureNotifiesOnce(t *testing.T) {
	t.Parallel()

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	recorder := &fakeRecorder{session: &fakeSession{path: audioPath}}
	transcriber := &fakeTranscriber{text: "hello"}
	injector := &fakeInjector{err: errors.New("all injection strategies failed")}
	notifier := &fakeNotifier{}

	result, err := newController(recorder, transcriber, injector, notifier, audioPath).Run(stoppedContext())
	if err == nil {
		t.Fatalf("expected error")
	}
	if result.Injected {
		t.Fatalf("result must not be marked injected")
	}
	if notifier.count(domain.FeedbackError) != 1 {
		t.Fatalf("expected exactly one error notification, got %d", notifier.count(domain.FeedbackError))
	}
	if _, err := os.Stat(audioPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("audio file not cleaned up after failure")
	}
}

func TestRunRecorderStartFailure(t *testing.T) {
	t.Parallel()

	recorder := &fakeRecorder{startErr: errors.New("no microphone")}
	notifier := &fakeNotifier{}

	_, err := newController(recorder, &fakeTranscriber{}, &fakeInjector{}, notifier, filepath.Join(t.TempDir(), "clip.wav")).Run(stoppedContext())
	if err == nil {
		t.Fatalf("expected error")
	}
	if notifier.count(domain.FeedbackError) != 1 {
		t.Fatalf("expected exactly one error notification")
	}
	if notifier.count(domain.FeedbackRecordingStarted) != 0 {
		t.Fatalf("start feedback must not fire when recording never started")
	}
}

func TestRunStopFailure(t *testing.T) {
	t.Parallel()

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	recorder := &fakeRecorder{session: &fakeSession{path: audioPath, stopErr: errors.New("no audio captured")}}
	transcriber := &fakeTranscriber{text: "hello"}
	notifier := &fakeNotifier{}

	_, err := newController(recorder, transcriber, &fakeInjector{}, notifier, audioPath).Run(stoppedContext())
	if err == nil {
		t.Fatalf("expected error")
	}
	if transcriber.path != "" {
		t.Fatalf("transcription must not run after stop failure")
	}
	if notifier.count(domain.FeedbackError) != 1 {
		t.Fatalf("expected exactly one error notification")
	}
}

func TestRunRemovesStaleClipBeforeRecording(t *testing.T) {
	t.Parallel()

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audioPath, []byte("stale"), 0o600); err != nil {
		t.Fatalf("write stale file failed: %v", err)
	}

	recorder := &fakeRecorder{session: &fakeSession{path: audioPath}}
	notifier := &fakeNotifier{}

	_, err := newController(recorder, &fakeTranscriber{text: "hi"}, &fakeInjector{strategy: "uinput"}, notifier, audioPath).Run(stoppedContext())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(audioPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("audio file not cleaned up")
	}
}
