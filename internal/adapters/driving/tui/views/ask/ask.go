// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/components/filter"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// ErrNoQueryService is reported when questions cannot be answered.
var ErrNoQueryService = errors.New("query service is not configured")

// userID identifies questions asked from the terminal.
const userID = "tui"

// mode is what the view is currently doing.
type mode int

const (
	modeInput mode = iota
	modeThinking
	modeAnswer
)

// View asks a legal question and shows the answer with its sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	spinner   spinner.Model
	viewport  viewport.Model
	statusbar *status.Bar
	category  filter.Category

	queryService driving.QueryService
	ctx          context.Context

	mode     mode
	question string
	answer   *domain.QueryResponse
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates the ask view. queryService may be nil when no language
// model is configured; the view then reports ErrNoQueryService.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQueryInput(s, "Question", "¿Qué pena corresponde al delito de robo?"),
		spinner:      sp,
		viewport:     viewport.New(80, 14),
		statusbar:    status.NewBar(s, km),
		queryService: queryService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if v.mode != modeThinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerCompleted:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	switch v.mode {
	case modeThinking:
		return v, nil

	case modeAnswer:
		if keymap.Matches(msg.String(), v.keymap.NewQuery) {
			return v, v.newQuestion()
		}
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	default:
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyEnter:
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			return v, v.submit(question)
		case tea.KeyTab:
			v.category.Next()
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
}

// submit starts answering question and the spinner that covers the wait.
func (v *View) submit(question string) tea.Cmd {
	v.mode = modeThinking
	v.question = question
	v.err = nil
	v.input.Blur()
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	svc, ctx := v.queryService, v.ctx
	req := driving.AskRequest{
		Question: question,
		Type:     domain.QueryTypeLegalQuestion,
		UserID:   userID,
		Category: v.category.Current(),
	}
	ask := func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
		return messages.AnswerCompleted{Question: question, Result: svc.Ask(ctx, req)}
	}

	return tea.Batch(v.spinner.Tick, ask)
}

func (v *View) handleAnswer(msg messages.AnswerCompleted) {
	if !msg.Result.Success || msg.Result.Data == nil {
		text := msg.Result.Message
		if text == "" {
			text = "no answer"
		}
		v.setError(errors.New(text))
		return
	}

	v.mode = modeAnswer
	v.answer = msg.Result.Data
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetConfidence(v.answer.Confidence)
	v.viewport.SetContent(v.renderAnswer())
	v.viewport.GotoTop()
}

// setError returns the view to the input with the error shown.
func (v *View) setError(err error) {
	v.err = err
	v.mode = modeInput
	v.input.Focus()
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) newQuestion() tea.Cmd {
	v.mode = modeInput
	v.answer = nil
	v.err = nil
	v.input.SetValue("")
	v.viewport.SetContent("")
	v.statusbar.Clear()
	return v.input.Focus()
}

// renderAnswer lays out the answer, its sources and the reasoning.
func (v *View) renderAnswer() string {
	if v.answer == nil {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(v.viewport.Width - 4)

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(v.question))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Answer.Width(v.viewport.Width - 4).Render(strings.TrimSpace(v.answer.Answer)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Confidence(v.answer.Confidence).
		Render(fmt.Sprintf("Confidence: %.0f%%", v.answer.Confidence*100)))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(v.answer.Sources))))
	b.WriteString("\n")
	if len(v.answer.Sources) == 0 {
		b.WriteString(v.styles.Muted.Render("  none"))
		b.WriteString("\n")
	}
	for i, src := range v.answer.Sources {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, v.styles.Normal.Render(src.Title),
			v.styles.Muted.Render(fmt.Sprintf("(%.2f)", src.RelevanceScore)))
		for _, section := range src.RelevantSections {
			b.WriteString(v.styles.Muted.Render("     " + strings.Join(strings.Fields(section), " ")))
			b.WriteString("\n")
		}
	}

	if reasoning := strings.TrimSpace(v.answer.Reasoning); reasoning != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Reasoning"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(reasoning))
		b.WriteString("\n")
	}

	return b.String()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Ask Lexa"),
		"",
	}

	switch v.mode {
	case modeThinking:
		sections = append(sections,
			v.styles.Subtitle.Render(v.question),
			"",
			v.spinner.View()+" "+v.styles.Muted.Render("Searching the library and drafting an answer..."),
		)
	case modeAnswer:
		sections = append(sections, v.viewport.View())
	default:
		sections = append(sections,
			v.input.View(),
			v.styles.Muted.Render("Category: ")+v.styles.Badge.Render(v.category.Label()),
		)
		if v.err != nil {
			sections = append(sections, "", v.styles.Error.Render("Error: "+v.err.Error()))
		}
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.viewport.Width = max(20, width)
	v.viewport.Height = max(3, height-6)
	v.statusbar.SetWidth(width)
	if v.answer != nil {
		v.viewport.SetContent(v.renderAnswer())
	}
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the text currently in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion fills the input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Answer returns the last answer, or nil.
func (v *View) Answer() *domain.QueryResponse {
	return v.answer
}

// Category returns the active category filter, nil meaning all.
func (v *View) Category() *domain.Category {
	return v.category.Current()
}

// Thinking reports whether a question is in flight.
func (v *View) Thinking() bool {
	return v.mode == modeThinking
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the view back to an empty question.
func (v *View) Reset() {
	v.newQuestion()
	v.category.Reset()
	v.question = ""
}
