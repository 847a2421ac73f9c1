// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Setting keys written by this view.
const (
	keyRetrievalMode  = "retrieval.mode"
	keyStrictValidity = "generation.strict_validity"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionRetrievalMode
	SectionEmbedding
	SectionLLM
)

// Overview rows.
const (
	rowRetrievalMode = iota
	rowStrictValidity
	rowEmbedding
	rowLLM
	overviewRows
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.Settings
	err      error
	notice   string

	section      Section
	selected     int // selection within current section
	focusedField int // 1 while the API key input has focus

	embeddingAPIKeyInput textinput.Model
	llmAPIKeyInput       textinput.Model

	width  int
	height int
	ready  bool
}

func newAPIKeyInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Enter API key"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 256
	return ti
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:               s,
		settingsService:      settingsService,
		section:              SectionOverview,
		embeddingAPIKeyInput: newAPIKeyInput(),
		llmAPIKeyInput:       newAPIKeyInput(),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Saved"
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionRetrievalMode:
		return v.handleRetrievalModeKeys(msg)
	case SectionEmbedding:
		return v.handleProviderKeys(msg, domain.AllEmbeddingProviders(), &v.embeddingAPIKeyInput, v.setEmbeddingProvider)
	case SectionLLM:
		return v.handleProviderKeys(msg, domain.AllLLMProviders(), &v.llmAPIKeyInput, v.setLLMProvider)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewRows-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil {
			return v, nil
		}
		v.notice = ""
		switch v.selected {
		case rowRetrievalMode:
			v.section = SectionRetrievalMode
			v.selected = indexOf(domain.AllRetrievalModes(), v.settings.Retrieval.Mode)
		case rowStrictValidity:
			return v, v.set(keyStrictValidity, strconv.FormatBool(!v.settings.Generation.StrictValidity))
		case rowEmbedding:
			v.section = SectionEmbedding
			v.selected = indexOf(domain.AllEmbeddingProviders(), v.settings.Embedding.Provider)
		case rowLLM:
			v.section = SectionLLM
			v.selected = indexOf(domain.AllLLMProviders(), v.settings.LLM.Provider)
		}
	}
	return v, nil
}

func (v *View) handleRetrievalModeKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	modes := domain.AllRetrievalModes()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(modes)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(modes) {
			return v, v.set(keyRetrievalMode, string(modes[v.selected]))
		}
	}
	return v, nil
}

// handleProviderKeys drives both provider pickers: a list of providers and,
// for providers that need one, an API key input reached with tab or enter.
func (v *View) handleProviderKeys(
	msg tea.KeyMsg,
	providers []domain.AIProvider,
	apiKey *textinput.Model,
	save func(domain.AIProvider, string) tea.Cmd,
) (*View, tea.Cmd) {
	if v.focusedField == 1 {
		switch msg.String() {
		case keyTab, "shift+tab":
			v.focusedField = 0
			apiKey.Blur()
			return v, nil
		case keyEnter:
			if v.selected >= 0 && v.selected < len(providers) {
				return v, save(providers[v.selected], apiKey.Value())
			}
			return v, nil
		default:
			var cmd tea.Cmd
			*apiKey, cmd = apiKey.Update(msg)
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case keyTab:
		if v.selected >= 0 && v.selected < len(providers) && providers[v.selected].RequiresAPIKey() {
			v.focusedField = 1
			return v, apiKey.Focus()
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(providers) {
			provider := providers[v.selected]
			if provider.RequiresAPIKey() {
				v.focusedField = 1
				return v, apiKey.Focus()
			}
			return v, save(provider, "")
		}
	}
	return v, nil
}

// Commands to update settings.

func (v *View) set(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.Set(key, value)}
	}
}

func (v *View) setEmbeddingProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		model := domain.DefaultEmbeddingModels()[provider]
		return messages.SettingsSaved{Err: svc.SetEmbeddingProvider(provider, model, apiKey)}
	}
}

func (v *View) setLLMProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		model := domain.DefaultLLMModels()[provider]
		return messages.SettingsSaved{Err: svc.SetLLMProvider(provider, model, apiKey)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.embeddingAPIKeyInput.SetValue("")
	v.embeddingAPIKeyInput.Blur()
	v.llmAPIKeyInput.SetValue("")
	v.llmAPIKeyInput.Blur()
}

func indexOf[T comparable](items []T, item T) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionRetrievalMode:
		b.WriteString(v.renderRetrievalModeSelect())
	case SectionEmbedding:
		b.WriteString(v.renderProviderSelect("Select Embedding Provider", domain.AllEmbeddingProviders(),
			v.settings.Embedding.Provider, domain.DefaultEmbeddingModels(), v.embeddingAPIKeyInput))
	case SectionLLM:
		b.WriteString(v.renderProviderSelect("Select LLM Provider", domain.AllLLMProviders(),
			v.settings.LLM.Provider, domain.DefaultLLMModels(), v.llmAPIKeyInput))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	providerValue := func(p domain.AIProvider, model string) string {
		if p == "" {
			return "Not Set"
		}
		return fmt.Sprintf("%s (%s)", p.Description(), model)
	}

	strict := "off (contains \"Valid\")"
	if v.settings.Generation.StrictValidity {
		strict = "on (exactly \"Valid\")"
	}

	items := []struct {
		label  string
		value  string
		status string
	}{
		{label: "Retrieval Mode", value: v.settings.Retrieval.Mode.Description()},
		{label: "Strict Validity", value: strict},
		{
			label:  "Embedding Provider",
			value:  providerValue(v.settings.Embedding.Provider, v.settings.Embedding.Model),
			status: v.configuredStatus(v.settings.Embedding.IsConfigured(), v.settings.Embedding.Provider),
		},
		{
			label:  "LLM Provider",
			value:  providerValue(v.settings.LLM.Provider, v.settings.LLM.Model),
			status: v.configuredStatus(v.settings.LLM.IsConfigured(), v.settings.LLM.Provider),
		},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		if item.status != "" {
			b.WriteString(" " + item.status)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	warnings := v.warnings()
	for _, w := range warnings {
		b.WriteString(v.styles.Warning.Render("Warning: " + w))
		b.WriteString("\n")
	}
	if len(warnings) == 0 {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render("Config: " + v.settingsService.ConfigPath()))
		b.WriteString("\n")
	}

	return b.String()
}

// warnings lists configuration problems worth showing on the overview.
func (v *View) warnings() []string {
	var out []string
	if err := v.settings.Validate(); err != nil {
		out = append(out, err.Error())
	}
	if !v.settings.LLM.IsConfigured() {
		out = append(out, "questions and drafting need an LLM provider")
	}
	if v.settings.Retrieval.Mode.RequiresEmbedding() && !v.settings.Embedding.IsConfigured() {
		out = append(out, "vector retrieval falls back to keyword without an embedding provider")
	}
	return out
}

func (v *View) configuredStatus(configured bool, p domain.AIProvider) string {
	switch {
	case configured:
		return v.styles.Success.Render("[configured]")
	case p == "":
		return v.styles.Muted.Render("[not set]")
	default:
		return v.styles.Warning.Render("[needs API key]")
	}
}

func (v *View) renderRetrievalModeSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Retrieval Mode"))
	b.WriteString("\n\n")

	for i, mode := range domain.AllRetrievalModes() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		current := ""
		if mode == v.settings.Retrieval.Mode {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s", indicator, mode.Description())
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString(current)
		b.WriteString("\n")

		if mode.RequiresEmbedding() {
			b.WriteString(v.styles.Muted.Render("    Requires: embedding"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *View) renderProviderSelect(
	title string,
	providers []domain.AIProvider,
	current domain.AIProvider,
	defaults map[domain.AIProvider]string,
	apiKey textinput.Model,
) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	for i, provider := range providers {
		highlighted := i == v.selected && v.focusedField == 0
		indicator := "  "
		if highlighted {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s", indicator, provider.Description())
		if highlighted {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		if provider == current {
			b.WriteString(v.styles.Success.Render(" (current)"))
		}
		b.WriteString("\n")

		if model, ok := defaults[provider]; ok {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", model)))
			b.WriteString("\n")
		}
	}

	if v.selected >= 0 && v.selected < len(providers) && providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(apiKey.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit/toggle  [esc] back")
	case SectionRetrievalMode:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionEmbedding, SectionLLM:
		if v.focusedField == 1 {
			return v.styles.Help.Render("[tab] back to list  [enter] save  [esc] back")
		}
		return v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings, or nil before the first load.
func (v *View) Settings() *domain.Settings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.notice = ""
}
