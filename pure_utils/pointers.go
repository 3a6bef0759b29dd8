package pure_utils

// NilIfEmpty returns nil for the empty string, which is rendered as null in JSON responses.
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
