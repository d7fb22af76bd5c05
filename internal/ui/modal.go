package ui

import (
	"sort"
	"sync"
)

// Well-known dialog identifiers.
const (
	ModalLogin    = "login"
	ModalRegister = "register"
	ModalUpload   = "upload"
)

// ModalManager tracks a visibility flag per dialog overlay.
type ModalManager struct {
	mu       sync.Mutex
	open     map[string]bool
	onChange func(open []string)
}

func NewModalManager() *ModalManager {
	return &ModalManager{open: make(map[string]bool)}
}

func (m *ModalManager) OnChange(fn func(open []string)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

func (m *ModalManager) Show(id string) {
	m.mu.Lock()
	m.open[id] = true
	m.notifyLocked()
}

func (m *ModalManager) Close(id string) {
	m.mu.Lock()
	delete(m.open, id)
	m.notifyLocked()
}

func (m *ModalManager) Toggle(id string) {
	m.mu.Lock()
	if m.open[id] {
		delete(m.open, id)
	} else {
		m.open[id] = true
	}
	m.notifyLocked()
}

func (m *ModalManager) IsOpen(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open[id]
}

// Open lists the visible dialogs in stable order.
func (m *ModalManager) Open() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.open))
	for id := range m.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Escape closes every open dialog, matching the Escape-key behavior.
func (m *ModalManager) Escape() {
	m.mu.Lock()
	for id := range m.open {
		delete(m.open, id)
	}
	m.notifyLocked()
}

// BackdropClick handles a pointer event on a dialog: a press on the
// overlay background dismisses it, a press on the content does not.
func (m *ModalManager) BackdropClick(id string, onContent bool) {
	if onContent {
		return
	}
	m.Close(id)
}

// notifyLocked releases the lock and fires the change callback.
func (m *ModalManager) notifyLocked() {
	fn := m.onChange
	var open []string
	if fn != nil {
		open = make([]string, 0, len(m.open))
		for id := range m.open {
			open = append(open, id)
		}
		sort.Strings(open)
	}
	m.mu.Unlock()
	if fn != nil {
		fn(open)
	}
}
