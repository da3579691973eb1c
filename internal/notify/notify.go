// Package notify delivers user-facing failure messages, such as a reorder
// that could not be saved.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Desktop sends native desktop notifications. Sends run in the background so
// callers on the input path never wait on the notification daemon.
type Desktop struct {
	enabled bool
	title   string

	// run executes the platform command; swapped in tests.
	run func(ctx context.Context, name string, args ...string) error
	wg  sync.WaitGroup
}

func NewDesktop(enabled bool, title string) *Desktop {
	return &Desktop{
		enabled: enabled,
		title:   title,
		run: func(ctx context.Context, name string, args ...string) error {
			out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
			if err != nil {
				return fmt.Errorf("%s failed: %w, output: %s", name, err, strings.TrimSpace(string(out)))
			}
			return nil
		},
	}
}

func (d *Desktop) NotifyFailure(message string) {
	if d == nil || !d.enabled {
		slog.Debug("desktop notifications disabled, skipping", "message", message)
		return
	}
	name, args, ok := desktopCommand(runtime.GOOS, d.title, message)
	if !ok {
		slog.Debug("desktop notifications not supported", "os", runtime.GOOS)
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.run(ctx, name, args...); err != nil {
			slog.Warn("failed to send notification", "error", err, "message", message)
			return
		}
		slog.Debug("notification sent", "title", d.title)
	}()
}

// Wait blocks until background sends finish.
func (d *Desktop) Wait() { d.wg.Wait() }

func desktopCommand(goos, title, message string) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return "osascript", []string{"-e", script}, true
	case "linux", "freebsd", "openbsd":
		return "notify-send", []string{title, message}, true
	default:
		return "", nil, false
	}
}

// Notifier is the shape reorder.Engine and the TUI deliver failures to.
type Notifier interface {
	NotifyFailure(message string)
}

// Fanout delivers each message to every non-nil notifier in order.
type Fanout []Notifier

func (f Fanout) NotifyFailure(message string) {
	for _, n := range f {
		if n != nil {
			n.NotifyFailure(message)
		}
	}
}

// Inbox keeps the latest failure for a UI to pick up on its next render.
type Inbox struct {
	mu   sync.Mutex
	msgs []string
}

func (b *Inbox) NotifyFailure(message string) {
	b.mu.Lock()
	b.msgs = append(b.msgs, message)
	b.mu.Unlock()
}

// Drain returns and clears all pending messages.
func (b *Inbox) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.msgs
	b.msgs = nil
	return out
}
