package documents

import "errors"

// ErrNoLibraryService indicates that no library service was provided.
var ErrNoLibraryService = errors.New("library service not available")
