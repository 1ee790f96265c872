package compliance

// State is the view's tri-state: Loading, Failed or Loaded.
type State interface {
	isState()
}

// Loading means no response has resolved yet.
type Loading struct{}

// Failed is terminal for the current identifier.
type Failed struct {
	Err error
}

// Loaded is terminal for the current identifier. System is nil when the
// API answered with no such system.
type Loaded struct {
	System *System
}

func (Loading) isState() {}
func (Failed) isState()  {}
func (Loaded) isState()  {}

// Resolved reports whether s is terminal.
func Resolved(s State) bool {
	switch s.(type) {
	case Failed, Loaded:
		return true
	default:
		return false
	}
}
