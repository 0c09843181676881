package notify

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/grovetools/sentinel/logging"
	"github.com/sirupsen/logrus"
)

// Sink delivers an alert plan. All three operations are fire-and-forget and
// individually optional: a platform lacking one treats it as a no-op, never
// an error. Delivery failures must not reach the reconciliation loop.
type Sink interface {
	PlaySound(sound Sound)
	Speak(text string)
	SendBanner(banner Banner)
}

// Deliver executes a plan against a sink.
func Deliver(sink Sink, plan Plan) {
	if plan.Sound != SoundNone {
		sink.PlaySound(plan.Sound)
	}
	if plan.Speech != "" {
		sink.Speak(plan.Speech)
	}
	for _, banner := range plan.Banners {
		sink.SendBanner(banner)
	}
}

// NopSink discards everything. Used in tests and on platforms with no
// delivery mechanism.
type NopSink struct{}

func (NopSink) PlaySound(Sound) {}

func (NopSink) Speak(string) {}

func (NopSink) SendBanner(Banner) {}

// CommandSink delivers alerts by shelling out to the platform's standard
// tools: afplay/say/osascript on macOS, canberra-gtk-play/spd-say/notify-send on
// Linux. Commands are started and forgotten; failures are logged at debug
// level and swallowed (a busy sound device must not block the next batch).
type CommandSink struct {
	// SoundNames optionally overrides the system sound per class, keyed by
	// the class name ("failed", "ready", "building").
	SoundNames map[string]string

	logger *logrus.Entry
}

// NewCommandSink creates a CommandSink for the current platform.
func NewCommandSink(soundNames map[string]string) *CommandSink {
	return &CommandSink{
		SoundNames: soundNames,
		logger:     logging.NewLogger("alerts"),
	}
}

// soundName resolves the configured or default system sound for a class.
func (s *CommandSink) soundName(sound Sound) string {
	class := ""
	switch sound {
	case SoundBasso:
		class = "failed"
	case SoundPing:
		class = "ready"
	case SoundSubmarine:
		class = "building"
	}
	if name, ok := s.SoundNames[class]; ok && name != "" {
		return name
	}
	return string(sound)
}

// PlaySound plays the system sound for the class.
func (s *CommandSink) PlaySound(sound Sound) {
	if sound == SoundNone {
		return
	}
	switch runtime.GOOS {
	case "darwin":
		path := fmt.Sprintf("/System/Library/Sounds/%s.aiff", s.soundName(sound))
		s.fire("afplay", path)
	case "linux":
		// Map the macOS sound classes onto the freedesktop sound theme.
		name := map[Sound]string{
			SoundBasso:     "dialog-error",
			SoundPing:      "complete",
			SoundSubmarine: "message",
		}[sound]
		s.fire("canberra-gtk-play", "-i", name)
	}
}

// Speak reads the text aloud with the platform speech engine.
func (s *CommandSink) Speak(text string) {
	if text == "" {
		return
	}
	switch runtime.GOOS {
	case "darwin":
		s.fire("say", text)
	case "linux":
		s.fire("spd-say", text)
	}
}

// SendBanner shows a desktop notification.
func (s *CommandSink) SendBanner(banner Banner) {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", banner.Body, banner.Title)
		s.fire("osascript", "-e", script)
	case "linux":
		s.fire("notify-send", banner.Title, banner.Body)
	}
}

// fire starts a command without waiting for it. The process is reaped in
// the background so failed deliveries surface only as debug logs.
func (s *CommandSink) fire(name string, args ...string) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		s.logger.WithError(err).WithField("command", name).Debug("Alert delivery failed")
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.WithError(err).WithField("command", name).Debug("Alert delivery failed")
		}
	}()
}
