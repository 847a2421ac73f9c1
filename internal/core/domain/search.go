package domain

// DefaultSearchLimit is applied when SearchOptions.Limit is not positive.
const DefaultSearchLimit = 10

// SearchOptions configures a retrieval call.
type SearchOptions struct {
	// Category restricts results to one document category when set.
	Category *Category

	// Limit is the maximum number of results. Values <= 0 mean DefaultSearchLimit.
	Limit int
}

// EffectiveLimit returns the limit with the default applied.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}

// Matches reports whether doc passes the category filter.
func (o SearchOptions) Matches(doc *Document) bool {
	if o.Category == nil {
		return true
	}
	return doc.Category == *o.Category
}
