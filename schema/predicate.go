package schema

// IsSchema reports whether v is a normalized schema, or a definition that
// can be normalized into one. It never panics.
func IsSchema(v any) bool {
	switch v := v.(type) {
	case *Schema:
		return v != nil
	case Definition:
		if !IsConstructible(v) {
			return false
		}
		_, err := safeMeta(v)
		return err == nil
	default:
		return false
	}
}

// IsConstructible reports whether v is a non-nil definition usable as a memo
// key whose Meta and Fields can be called without panicking.
func IsConstructible(v any) bool {
	def, ok := v.(Definition)
	if !ok || !hashable(def) {
		return false
	}
	if s, ok := def.(*Schema); ok {
		return s != nil
	}
	if _, err := safeMeta(def); err != nil {
		return false
	}
	_, err := declarations(def)
	return err == nil
}
