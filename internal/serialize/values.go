package serialize

import (
	"math"
	"strconv"
)

// Int reads a literal integer from a property value. Synthesized templates
// carry numbers as int64, parsed ones as float64, and some properties as
// numeric strings.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// List returns v as a list, or nil when it is something else.
func List(v any) []any {
	l, _ := v.([]any)
	return l
}

// RefTarget returns X for {"Ref": X} and "" for any other value.
func RefTarget(v any) string {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return ""
	}
	s, _ := m["Ref"].(string)
	return s
}
