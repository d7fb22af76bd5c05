package thumbnail

import "sync"

// DefaultFilename is the name an auto-extracted frame is uploaded under.
const DefaultFilename = "auto_thumbnail.jpg"

// State of the single pending-thumbnail slot.
type State int

const (
	// Empty means no thumbnail is staged.
	Empty State = iota
	// AutoGenerated means an extracted video frame is staged.
	AutoGenerated
	// UserProvided means the user picked their own thumbnail file; the
	// slot holds nothing and auto frames are refused until cleared.
	UserProvided
)

func (s State) String() string {
	switch s {
	case AutoGenerated:
		return "auto"
	case UserProvided:
		return "user"
	default:
		return "empty"
	}
}

// Pending is the process-wide staging slot written by two call sites: the
// auto extractor and the manual selection handler. A manual choice always
// overrides an auto frame regardless of arrival order.
type Pending struct {
	mu       sync.Mutex
	state    State
	blob     []byte
	filename string
}

// SetAuto stages an extracted frame. It reports false, leaving the slot
// untouched, while a user-provided thumbnail stands.
func (p *Pending) SetAuto(blob []byte, filename string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == UserProvided {
		return false
	}
	if filename == "" {
		filename = DefaultFilename
	}
	p.state = AutoGenerated
	p.blob = blob
	p.filename = filename
	return true
}

// SetUser records that the user selected their own thumbnail file. Any
// staged auto frame is dropped.
func (p *Pending) SetUser() {
	p.mu.Lock()
	p.state = UserProvided
	p.blob = nil
	p.filename = ""
	p.mu.Unlock()
}

// Clear resets the slot to empty, e.g. after a failed extraction or a
// form reset.
func (p *Pending) Clear() {
	p.mu.Lock()
	p.state = Empty
	p.blob = nil
	p.filename = ""
	p.mu.Unlock()
}

// Auto returns the staged frame when one is present.
func (p *Pending) Auto() (blob []byte, filename string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != AutoGenerated {
		return nil, "", false
	}
	return p.blob, p.filename, true
}

func (p *Pending) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
