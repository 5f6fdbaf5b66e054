package fetch

import (
	"fmt"
	"sync"
)

// Level classifies a viewer-facing notice.
type Level int

// Notice levels, ordered by severity.
const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns the lowercase level name used in CSS classes and logs.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notice is a message shown to the viewer. Notices never stop rendering.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices emitted while materializing assets.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// NoticeLog collects notices in arrival order. Safe for concurrent use.
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify appends n to the log.
func (l *NoticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

// Notices returns a copy of the collected notices.
func (l *NoticeLog) Notices() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notice, len(l.notices))
	copy(out, l.notices)
	return out
}

// Errors returns only the error-level notices.
func (l *NoticeLog) Errors() []Notice {
	var out []Notice
	for _, n := range l.Notices() {
		if n.Level == LevelError {
			out = append(out, n)
		}
	}
	return out
}

// discard drops every notice.
type discard struct{}

func (discard) Notify(Notice) {}

// Compile-time interface checks.
var (
	_ Notifier = (*NoticeLog)(nil)
	_ Notifier = NotifierFunc(nil)
	_ Notifier = discard{}
)
