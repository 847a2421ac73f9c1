// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.DocumentReference
	Err     error
}

// AnswerCompleted carries the outcome of a question.
type AnswerCompleted struct {
	Question string
	Result   domain.Result[domain.QueryResponse]
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question and answer view.
	ViewAsk
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewDocuments lists indexed documents.
	ViewDocuments
	// ViewDocContent shows document content.
	ViewDocContent
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the documents of the library, optionally
// filtered by category.
type DocumentsLoaded struct {
	Category  *domain.Category
	Documents []domain.Document
	Err       error
}

// DocumentSelected asks to open a document. Only the ID is required.
type DocumentSelected struct {
	DocumentID string
	Title      string
}

// DocumentContentLoaded carries a document with its content.
type DocumentContentLoaded struct {
	DocumentID string
	Document   *domain.Document
	Err        error
}

// DocumentDeleted signals a document was removed from the library.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.Settings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
