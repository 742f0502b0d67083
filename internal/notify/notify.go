package notify

import (
	"os/exec"
	"unicode/utf8"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"voxtype/internal/domain"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyTimeoutMS = 2000

	maxBodyRunes = 100
)

// payload is the fixed notification tuple for one feedback event.
type payload struct {
	title string
	body  string
	icon  string
	sound string
}

// payloadFor maps every feedback event onto its notification tuple. The body
// argument only fills events that carry a message.
func payloadFor(event domain.FeedbackEvent, message string) payload {
	switch event {
	case domain.FeedbackRecordingStarted:
		return payload{"Recording Started", "Speak now...", "audio-input-microphone", "device-added"}
	case domain.FeedbackRecordingStopped:
		return payload{"Recording Stopped", "Transcribing...", "audio-x-generic", "device-removed"}
	case domain.FeedbackDone:
		body := truncate(message, maxBodyRunes)
		if body == "" {
			body = "Done!"
		}
		return payload{"Text Typed", body, "dialog-ok", "message-new-instant"}
	case domain.FeedbackError:
		body := truncate(message, maxBodyRunes)
		if body == "" {
			body = "Something went wrong"
		}
		return payload{"Error", body, "dialog-error", "dialog-error"}
	default:
		return payload{"voxtype", truncate(message, maxBodyRunes), "dialog-information", "bell"}
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

// DesktopNotifier shows desktop notifications over the session bus and plays
// event sounds through the system sound theme. Everything is best effort: a
// missing bus or sound player never affects the run.
type DesktopNotifier struct {
	conn         *dbus.Conn
	soundCommand string
	logger       *zap.Logger
}

func NewDesktopNotifier(soundCommand string, logger *zap.Logger) *DesktopNotifier {
	if soundCommand == "" {
		soundCommand = "canberra-gtk-play"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Debug("session bus unavailable, visual notifications disabled", zap.Error(err))
		conn = nil
	}

	return &DesktopNotifier{conn: conn, soundCommand: soundCommand, logger: logger}
}

// Notify dispatches the visual and audio feedback for event, fire and forget.
func (n *DesktopNotifier) Notify(event domain.FeedbackEvent, message string) {
	p := payloadFor(event, message)

	if n.conn != nil {
		obj := n.conn.Object(notifyService, notifyPath)
		call := obj.Call(notifyMethod, 0,
			"voxtype",          // app name
			uint32(0),          // no notification to replace
			p.icon,
			p.title,
			p.body,
			[]string{},         // no actions
			map[string]dbus.Variant{},
			int32(notifyTimeoutMS),
		)
		if call.Err != nil {
			n.logger.Debug("notification failed", zap.Error(call.Err))
		}
	}

	if _, err := exec.LookPath(n.soundCommand); err != nil {
		return
	}
	cmd := exec.Command(n.soundCommand, "-i", p.sound)
	if err := cmd.Start(); err != nil {
		n.logger.Debug("sound playback failed", zap.Error(err))
		return
	}
	go func() { _ = cmd.Wait() }()
}
