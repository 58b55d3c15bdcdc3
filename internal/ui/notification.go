package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// SoundError is played with error notifications, see /System/Library/Sounds
const SoundError = "Basso"

func NotifyError(title, text string) {
	Notify(title, text, SoundError)
}

// ErrorAndNotify prints the error and shows it as a desktop notification
func ErrorAndNotify(title, format string, a ...interface{}) {
	text := fmt.Sprintf(format, a...)
	Error("%s: %s", title, text)
	NotifyError(title, text)
}

// Notify shows a notification in the macOS notification center
func Notify(title, text, sound string) {
	if runtime.GOOS != "darwin" {
		Debug("Notifications are only supported on macOS, skipping '%s'", title)
		return
	}

	cmd := exec.Command("osascript", "-e", notificationScript(title, text, sound))
	if err := cmd.Run(); err != nil {
		Warning("Error sending notification: %v", err)
	}
}

func notificationScript(title, text, sound string) string {
	return fmt.Sprintf("display notification %s with title %s sound name %s",
		strconv.Quote(text), strconv.Quote(title), strconv.Quote(sound))
}
