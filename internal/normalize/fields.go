package normalize

import "strings"

// stringField reads one string value from a raw record, tolerating
// absent keys and non-string values.
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// firstString evaluates an ordered preference list of keys and returns
// the first non-empty string value.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}

// childMap descends one level into a raw document.
func childMap(m map[string]any, key string) map[string]any {
	v, ok := m[key]
	if !ok {
		return nil
	}
	child, _ := v.(map[string]any)
	return child
}

// listAt resolves a dotted path to a JSON array, or nil.
func listAt(m map[string]any, path string) []any {
	keys := strings.Split(path, ".")
	cur := m
	for i, key := range keys {
		if i == len(keys)-1 {
			list, _ := cur[key].([]any)
			return list
		}
		cur = childMap(cur, key)
		if cur == nil {
			return nil
		}
	}
	return nil
}
