package utils

// Truncate cuts a string to at most max runes, appending an ellipsis when
// anything was dropped.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
