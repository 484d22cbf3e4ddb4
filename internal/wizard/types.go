package wizard

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// State is the current step in the wizard flow
type State int

const (
	StateEnvironmentName State = iota
	StateDatabaseURL
	StateSummary
	StateDone
	StateCancelled
)

// Result is what the wizard produces: one named environment ready to be
// written into tableshape.toml.
type Result struct {
	EnvironmentName string
	DatabaseURL     string
}

// Model holds the state for the Bubble Tea init wizard
type Model struct {
	state State

	nameInput textinput.Model
	urlInput  textinput.Model

	validationError string

	result *Result
}
