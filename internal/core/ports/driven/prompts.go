package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptLegalSystem is the system instruction for every generation.
	// It takes no arguments and may be left empty.
	PromptLegalSystem = "legal_system"

	// PromptLegalAnswer answers a question from retrieved documents.
	// The template expects %s (documents) then %s (question).
	PromptLegalAnswer = "legal_answer"

	// PromptLegalReasoning explains how an answer follows from the documents.
	// The template expects %s (question), %s (answer) then %s (document titles).
	PromptLegalReasoning = "legal_reasoning"

	// PromptLegalDraft drafts a legal document.
	// The template expects %s (type), %s (title), %s (instructions),
	// %s (additional context) then %s (documents).
	PromptLegalDraft = "legal_draft"

	// PromptLegalValidate reviews a document and answers in labelled blocks.
	// The template expects %s (document content).
	PromptLegalValidate = "legal_validate"
)
