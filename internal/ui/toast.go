package ui

import (
	"sync"
	"time"
)

// Severity classifies a toast.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
	Warning Severity = "warning"
)

var severityIcons = map[Severity]string{
	Success: "check-circle",
	Error:   "exclamation-circle",
	Info:    "info-circle",
	Warning: "exclamation-triangle",
}

// Icon names the glyph shown next to the message.
func (s Severity) Icon() string {
	if icon, ok := severityIcons[s]; ok {
		return icon
	}
	return severityIcons[Info]
}

const (
	toastBaseOffset = 80
	toastSpacing    = 60

	// DefaultToastTTL is how long a toast stays on screen before it is
	// removed automatically.
	DefaultToastTTL = 3 * time.Second
)

// Toast is one transient on-screen message. Offset is its vertical
// position, determined by its place in the stack.
type Toast struct {
	ID       int64
	Message  string
	Severity Severity
	Offset   int
}

// ToastManager keeps an ordered stack of toasts. New entries appear below
// all visible ones; removal closes the gap by repositioning the rest.
// Manual dismissal and the TTL expiry share one removal path.
type ToastManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	nextID   int64
	active   []Toast
	onChange func([]Toast)
}

func NewToastManager(ttl time.Duration) *ToastManager {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &ToastManager{ttl: ttl}
}

// OnChange registers the render callback, fired with a snapshot of the
// stack after every mutation.
func (m *ToastManager) OnChange(fn func([]Toast)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Show appends a toast to the stack and schedules its removal.
func (m *ToastManager) Show(message string, severity Severity) int64 {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.active = append(m.active, Toast{
		ID:       id,
		Message:  message,
		Severity: severity,
		Offset:   toastBaseOffset + toastSpacing*len(m.active),
	})
	snapshot, notify := m.snapshotLocked()
	m.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
	time.AfterFunc(m.ttl, func() { m.Dismiss(id) })
	return id
}

// Dismiss removes a toast and repositions the remaining stack so no gaps
// remain. Unknown ids are ignored, which makes the TTL timer harmless
// after a manual dismissal.
func (m *ToastManager) Dismiss(id int64) {
	m.mu.Lock()
	idx := -1
	for i, t := range m.active {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.active = append(m.active[:idx], m.active[idx+1:]...)
	for i := range m.active {
		m.active[i].Offset = toastBaseOffset + toastSpacing*i
	}
	snapshot, notify := m.snapshotLocked()
	m.mu.Unlock()

	if notify != nil {
		notify(snapshot)
	}
}

// Active returns a snapshot of the visible stack in insertion order.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, _ := m.snapshotLocked()
	return snapshot
}

func (m *ToastManager) snapshotLocked() ([]Toast, func([]Toast)) {
	snapshot := make([]Toast, len(m.active))
	copy(snapshot, m.active)
	return snapshot, m.onChange
}
