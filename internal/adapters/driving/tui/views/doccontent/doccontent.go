// Package doccontent provides the document content view component for the TUI.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// ErrNoLibraryService indicates that no library service was provided.
var ErrNoLibraryService = errors.New("library service not available")

// View shows the full text of one document.
type View struct {
	styles         *styles.Styles
	libraryService driving.LibraryService
	ctx            context.Context

	documentID   string
	title        string
	document     *domain.Document
	back         messages.ViewType
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, libraryService driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		libraryService: libraryService,
		ctx:            context.Background(),
		back:           messages.ViewDocuments,
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open loads a document. back is the view Esc returns to.
func (v *View) Open(sel messages.DocumentSelected, back messages.ViewType) tea.Cmd {
	v.documentID = sel.DocumentID
	v.title = sel.Title
	v.back = back
	v.document = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadContent() tea.Cmd {
	svc, ctx, id := v.libraryService, v.ctx, v.documentID
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentContentLoaded{DocumentID: id, Err: ErrNoLibraryService}
		}
		doc, err := svc.Get(ctx, id)
		return messages.DocumentContentLoaded{DocumentID: id, Document: doc, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		if msg.DocumentID != v.documentID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.document = msg.Document
		v.err = nil
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(0, v.scrollOffset-v.visibleLines())
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.maxScrollOffset(), v.scrollOffset+v.visibleLines())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	return v, nil
}

// wrapContent wraps the content to fit the view width.
func (v *View) wrapContent() {
	if v.document == nil || v.document.Content == "" {
		v.lines = nil
		return
	}

	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	rawLines := strings.Split(v.document.Content, "\n")
	v.lines = make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		runes := []rune(line)
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		v.lines = append(v.lines, string(runes))
	}
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// title, metadata, separator, help and padding
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	return max(0, len(v.lines)-v.visibleLines())
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := v.title
	if v.document != nil && v.document.Title != "" {
		title = v.document.Title
	}
	if title == "" {
		title = v.documentID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	if v.document != nil {
		b.WriteString(v.renderMetadata())
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", max(1, min(v.width-4, 60))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		visibleLines := v.visibleLines()
		for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visibleLines; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visibleLines {
			b.WriteString("\n")
			percentage := 0
			if v.maxScrollOffset() > 0 {
				percentage = v.scrollOffset * 100 / v.maxScrollOffset()
			}
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
				percentage,
				v.scrollOffset+1,
				min(v.scrollOffset+visibleLines, len(v.lines)),
				len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))

	return b.String()
}

// renderMetadata renders the category badge and file facts on one line.
func (v *View) renderMetadata() string {
	md := v.document.Metadata
	parts := []string{md.FileName}
	if md.PageCount != nil {
		parts = append(parts, fmt.Sprintf("%d pages", *md.PageCount))
	}
	if md.Jurisdiction != "" {
		parts = append(parts, md.Jurisdiction)
	}
	if len(md.Tags) > 0 {
		parts = append(parts, strings.Join(md.Tags, ", "))
	}
	return v.styles.Category(v.document.Category) + "  " + v.styles.Muted.Render(strings.Join(parts, " · "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Document returns the loaded document.
func (v *View) Document() *domain.Document {
	return v.document
}

// DocumentID returns the ID of the open document.
func (v *View) DocumentID() string {
	return v.documentID
}

// Back returns the view Esc returns to.
func (v *View) Back() messages.ViewType {
	return v.back
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
