// Package documents provides the library list view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/components/filter"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// ActionOption represents a document action.
type ActionOption int

const (
	ActionShowContent ActionOption = iota
	ActionDelete
	ActionCancel
)

var actionLabels = map[ActionOption]string{
	ActionShowContent: "Show Content",
	ActionDelete:      "Delete from library",
	ActionCancel:      "Cancel",
}

// View lists the documents in the library.
type View struct {
	styles         *styles.Styles
	keymap         *keymap.KeyMap
	libraryService driving.LibraryService
	ctx            context.Context
	category       filter.Category

	documents    []domain.Document
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	showingMenu  bool
	menuSelected ActionOption
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, libraryService driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:         s,
		keymap:         km,
		libraryService: libraryService,
		ctx:            context.Background(),
		documents:      []domain.Document{},
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load resets the selection and reloads the library.
func (v *View) Load() tea.Cmd {
	v.selected = 0
	v.scrollOffset = 0
	v.showingMenu = false
	v.err = nil
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	v.loading = true
	svc, ctx := v.libraryService, v.ctx
	category := v.category.Current()
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Category: category, Err: ErrNoLibraryService}
		}
		docs, err := svc.List(ctx, domain.DocumentFilter{Category: category})
		return messages.DocumentsLoaded{Category: category, Documents: docs, Err: err}
	}
}

func (v *View) deleteDocument(id string) tea.Cmd {
	svc, ctx := v.libraryService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: ErrNoLibraryService}
		}
		return messages.DocumentDeleted{DocumentID: id, Err: svc.Delete(ctx, id)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		if v.documents == nil {
			v.documents = []domain.Document{}
		}
		if v.selected >= len(v.documents) {
			v.selected = max(0, len(v.documents)-1)
		}
		v.adjustScroll()
		v.err = nil
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case k == "enter":
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionShowContent
		}
	case keymap.Matches(k, v.keymap.Delete):
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionDelete
		}
	case keymap.Matches(k, v.keymap.Category):
		v.category.Next()
		return v, v.Load()
	case keymap.Matches(k, v.keymap.Reload):
		return v, v.loadDocuments()
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleMenuKeyMsg handles key presses in action menu mode.
func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionShowContent {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}

	return v, nil
}

func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	doc := v.SelectedDocument()
	if doc == nil {
		return v, nil
	}
	id, title := doc.ID, doc.Title

	switch v.menuSelected {
	case ActionShowContent:
		return v, func() tea.Msg {
			return messages.DocumentSelected{DocumentID: id, Title: title}
		}
	case ActionDelete:
		return v, v.deleteDocument(id)
	case ActionCancel:
	}

	return v, nil
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// title, filter line, help and padding
	available := v.height - 9
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Library (%d)", len(v.documents))))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Category: ") + v.styles.Badge.Render(v.category.Label()))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents indexed. Run 'lexa ingest <path>' to add some."))
	case v.showingMenu:
		return b.String() + v.renderActionMenu()
	default:
		visibleItems := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visibleItems {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visibleItems, len(v.documents)),
				len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	maxTitleLen := v.width/2 - 4
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen-3]) + "..."
	}

	detail := doc.Metadata.FileName
	if doc.Metadata.PageCount != nil {
		detail = fmt.Sprintf("%s, %d pages", detail, *doc.Metadata.PageCount)
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title)) +
			"  " + v.styles.Category(doc.Category) + "  " + v.styles.Muted.Render(detail)
	}

	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title)) +
		"  " + v.styles.Category(doc.Category) + "  " + v.styles.Muted.Render(detail)
}

// renderActionMenu renders the action menu overlay.
func (v *View) renderActionMenu() string {
	var b strings.Builder

	if doc := v.SelectedDocument(); doc != nil {
		title := doc.Title
		if title == "" {
			title = doc.ID
		}
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Actions for: %s", title)))
		b.WriteString("\n\n")
	}

	for opt := ActionShowContent; opt <= ActionCancel; opt++ {
		if v.menuSelected == opt {
			b.WriteString(v.styles.Selected.Render("> " + actionLabels[opt]))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + actionLabels[opt]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [tab] category  [d] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// Category returns the active category filter, nil meaning all.
func (v *View) Category() *domain.Category {
	return v.category.Current()
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// IsLoading reports whether a load is in flight.
func (v *View) IsLoading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
