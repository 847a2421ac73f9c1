// Package menu is the home screen listing the assistant's areas.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/styles"
)

// Item is one entry. Selecting a Quit item exits the program.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

func defaultItems() []Item {
	return []Item{
		{Label: "Ask", Description: "Ask a legal question", View: messages.ViewAsk},
		{Label: "Search", Description: "Search the library", View: messages.ViewSearch},
		{Label: "Documents", Description: "Browse indexed documents", View: messages.ViewDocuments},
		{Label: "Settings", Description: "Providers and retrieval", View: messages.ViewSettings},
		{Label: "Help", Description: "Keybindings", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View is the menu. Entries can be picked with the cursor or by number.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keymap: km, items: defaultItems(), width: 80, height: 24}
}

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.selected = max(v.selected-1, 0)
		case key.Matches(msg, v.keymap.Down):
			v.selected = min(v.selected+1, len(v.items)-1)
		case key.Matches(msg, v.keymap.Select):
			return v, v.choose(v.selected)
		case key.Matches(msg, v.keymap.Quit):
			return v, tea.Quit
		default:
			if n, ok := shortcut(msg); ok && n < len(v.items) {
				v.selected = n
				return v, v.choose(n)
			}
		}
	}
	return v, nil
}

// shortcut maps the keys 1-9 to item indexes.
func shortcut(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg { return messages.ViewChanged{View: item.View} }
}

func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Lexa"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render("Legal Research Assistant"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		cursor, label := "  ", v.styles.Normal.Render(item.Label)
		if i == v.selected {
			cursor, label = "> ", v.styles.Selected.Render(item.Label)
		}
		fmt.Fprintf(&b, "%s%d. %s", cursor, i+1, label)
		if item.Description != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(fmt.Sprintf("[j/k] Navigate  [Enter] Select  [1-%d] Jump  [q] Quit", len(v.items))))
	return b.String()
}

func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

func (v *View) Selected() int { return v.selected }
func (v *View) Items() []Item { return v.items }
