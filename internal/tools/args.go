package tools

// getStr returns the string argument stored under key, or def when the key
// is missing or holds a non-string value.
func getStr(m map[string]interface{}, key, def string) string {
	v, ok := m[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// optStr is like getStr but reports whether a string was present.
func optStr(m map[string]interface{}, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}
