// Package status provides the status line shown at the bottom of each view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/styles"
)

// State is what the active view is doing.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateThinking  State = "thinking"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
	StateAnswered  State = "answered"
)

// busyLabels are shown while a request is in flight.
var busyLabels = map[State]string{
	StateSearching: "Searching...",
	StateThinking:  "Consulting the library...",
}

// minHintGap keeps the status text and key hints apart.
const minHintGap = 2

// Bar renders the state on the left and key hints on the right. It holds no
// behaviour of its own; views push state into it.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	width  int

	state       State
	message     string
	resultCount int
	confidence  float64
}

// NewBar returns a bar in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80, state: StateReady}
}

// View renders the bar at its configured width. Error messages are
// shortened so the hints stay visible.
func (s *Bar) View() string {
	right := s.hints()
	left := s.status(s.width - lipgloss.Width(right) - minHintGap)

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) status(room int) string {
	if label, ok := busyLabels[s.state]; ok {
		return s.styles.Muted.Render(label)
	}

	switch s.state {
	case StateAnswered:
		return s.styles.Confidence(s.confidence).Render(fmt.Sprintf("Confidence %.0f%%", s.confidence*100))
	case StateError:
		text := "Error"
		if s.message != "" {
			text = truncate("Error: "+s.message, room)
		}
		return s.styles.Error.Render(text)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	}

	if s.resultCount == 1 {
		return s.styles.Normal.Render("1 result")
	}
	if s.resultCount > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount))
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) hints() string {
	var bindings []key.Binding
	switch {
	case s.state == StateResults && s.resultCount > 0:
		bindings = s.keymap.ResultsHelp()
	case s.state == StateAnswered:
		bindings = s.keymap.AnswerHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// truncate cuts text to at most n runes, marking the cut with "...".
func truncate(text string, n int) string {
	r := []rune(text)
	if n < 4 || len(r) <= n {
		return text
	}
	return string(r[:n-3]) + "..."
}

func (s *Bar) SetState(state State)        { s.state = state }
func (s *Bar) State() State                { return s.state }
func (s *Bar) SetMessage(message string)   { s.message = message }
func (s *Bar) Message() string             { return s.message }
func (s *Bar) SetResultCount(count int)    { s.resultCount = count }
func (s *Bar) ResultCount() int            { return s.resultCount }
func (s *Bar) SetConfidence(score float64) { s.confidence = score }
func (s *Bar) Confidence() float64         { return s.confidence }
func (s *Bar) SetWidth(width int)          { s.width = width }
func (s *Bar) Width() int                  { return s.width }

// Clear returns the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
	s.confidence = 0
}
