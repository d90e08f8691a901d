package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// SendFunc delivers one desktop notification
type SendFunc func(title, message string) error

// notifyCommands builds the platform notification command
var notifyCommands = map[string]func(title, message string) *exec.Cmd{
	"linux": func(title, message string) *exec.Cmd {
		return exec.Command("notify-send", "--app-name=igprofile", title, message)
	},
	"darwin": func(title, message string) *exec.Cmd {
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return exec.Command("osascript", "-e", script)
	},
	"windows": func(title, message string) *exec.Cmd {
		return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", windowsToast(title, message))
	},
}

func windowsToast(title, message string) string {
	quote := func(s string) string { return "'" + strings.ReplaceAll(s, "'", "''") + "'" }
	return strings.Join([]string{
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null`,
		`$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)`,
		`$text = $xml.GetElementsByTagName('text')`,
		`$text.Item(0).AppendChild($xml.CreateTextNode(` + quote(title) + `)) | Out-Null`,
		`$text.Item(1).AppendChild($xml.CreateTextNode(` + quote(message) + `)) | Out-Null`,
		`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('igprofile').Show([Windows.UI.Notifications.ToastNotification]::new($xml))`,
	}, "; ")
}

// commandSender returns the SendFunc for goos, or nil when the platform has
// no notification command
func commandSender(goos string) SendFunc {
	build, ok := notifyCommands[goos]
	if !ok {
		return nil
	}
	return func(title, message string) error {
		return build(title, message).Run()
	}
}

// Notifier prints the end-of-run message and mirrors it as a desktop
// notification when enabled
type Notifier struct {
	send    SendFunc
	enabled bool
}

// NewNotifier creates a notifier for the current platform
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{send: commandSender(runtime.GOOS), enabled: enabled}
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled || n.send == nil {
		return
	}
	// a missing notify-send or osascript is not an error for the run
	_ = n.send(title, message)
}

// SendError reports a failed run on stderr
func (n *Notifier) SendError(title, message string) {
	fmt.Fprintf(ErrOutput, "\n%s: %s\n", Red(title), Red(message))
	n.notify(title, message)
}

// SendSuccess reports a completed run
func (n *Notifier) SendSuccess(title, message string) {
	printf("\n%s: %s\n", Green(title), Green(message))
	n.notify(title, message)
}
