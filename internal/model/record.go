package model

// Record is one business-data row: a flat mapping from attribute slug to a
// primitive value (number, string, boolean, date-like string, or nil).
// Records are supplied per evaluation call and never mutated by the engine.
type Record map[string]any

// Get returns the attribute value for slug, or nil if absent.
func (r Record) Get(slug string) any {
	if r == nil {
		return nil
	}
	return r[slug]
}
