package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"voxtype/internal/ports"
)

// FFMPEGRecorder captures microphone PCM through ffmpeg and finalizes it into
// a WAV file when stopped.
type FFMPEGRecorder struct {
	command string
}

func NewFFMPEGRecorder(command string) *FFMPEGRecorder {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGRecorder{command: command}
}

func (r *FFMPEGRecorder) Start(ctx context.Context, cfg ports.RecorderConfig) (ports.RecordingSession, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("recorder output path is required")
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimmed(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(250 * time.Millisecond):
	}

	session := &recordingSession{
		stderr:     &stderr,
		process:    cmd.Process,
		waitErr:    waitErr,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		outputPath: cfg.OutputPath,
		readDone:   make(chan struct{}),
	}

	go session.drain(stdout)
	return session, nil
}

type recordingSession struct {
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	sampleRate int
	channels   int
	outputPath string

	pcm      bytes.Buffer
	readDone chan struct{}

	stopOnce sync.Once
	stopPath string
	stopErr  error
}

// drain buffers raw PCM until ffmpeg's stdout closes.
func (s *recordingSession) drain(stdout io.ReadCloser) {
	defer close(s.readDone)
	_, _ = io.Copy(&s.pcm, stdout)
	_ = stdout.Close()
}

// Stop interrupts ffmpeg, waits for the capture to flush, and writes the
// buffered samples into the WAV file.
func (s *recordingSession) Stop() (string, error) {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = normalizeExitErr(err)
			}
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			err, ok := <-s.waitErr
			if ok {
				s.stopErr = normalizeExitErr(err)
			}
		}

		<-s.readDone

		if s.stopErr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimmed(s.stderr.String()))
		}
		if s.stopErr != nil {
			return
		}

		s.stopPath = s.outputPath
		s.stopErr = writeWAV(s.outputPath, s.pcm.Bytes(), s.sampleRate, s.channels)
	})

	return s.stopPath, s.stopErr
}

// writeWAV encodes little-endian s16 PCM into a WAV container.
func writeWAV(path string, pcm []byte, sampleRate int, channels int) error {
	if len(pcm) == 0 {
		return errors.New("no audio captured")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	enc := wav.NewEncoder(file, sampleRate, 16, channels, 1)

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = file.Close()
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return file.Close()
}

// ffmpeg exits non-zero when interrupted; that is a clean stop for us.
func normalizeExitErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimmed(input string) string {
	return string(bytes.TrimSpace([]byte(input)))
}
