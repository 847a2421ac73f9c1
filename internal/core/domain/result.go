package domain

// Messages of failed results that callers may act on.
const (
	// ResultInvalidPrefix starts the message of a rejected request.
	ResultInvalidPrefix = "Invalid request: "

	// ResultNotFound is the message of a lookup for a missing record.
	ResultNotFound = "Not found"
)

// Result is the uniform outcome of a public orchestration call.
// Failures never escape as Go errors; they carry Success=false and a
// user-facing Message instead.
type Result[T any] struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	Data    *T     `json:"data,omitempty" yaml:"data,omitempty"`
}

// Ok wraps a successful value.
func Ok[T any](data *T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail builds a failed result with no data.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// BatchItem is one entry of a batch ingestion request.
type BatchItem struct {
	Source   string   `json:"source"`
	Category Category `json:"category"`
}

// BatchItemResult is the per-item outcome of batch ingestion.
// Exactly one of Document and Err is set.
type BatchItemResult struct {
	Source   string    `json:"source"`
	Category Category  `json:"category"`
	Document *Document `json:"document,omitempty"`
	Err      error     `json:"-"`
}

// Failed reports whether the item failed.
func (r BatchItemResult) Failed() bool {
	return r.Err != nil
}

// LibraryStats summarises the document store.
type LibraryStats struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"byCategory"`
}
