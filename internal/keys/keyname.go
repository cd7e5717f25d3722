package keys

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// namedKeys maps lower-cased spellings to the canonical key name
var namedKeys = map[string]string{
	"arrowup":      "ArrowUp",
	"up":           "ArrowUp",
	"arrowdown":    "ArrowDown",
	"down":         "ArrowDown",
	"arrowleft":    "ArrowLeft",
	"left":         "ArrowLeft",
	"arrowright":   "ArrowRight",
	"right":        "ArrowRight",
	"space":        "Space",
	"spacebar":     "Space",
	"esc":          "Escape",
	"escape":       "Escape",
	"enter":        "Enter",
	"return":       "Enter",
	"tab":          "Tab",
	"backspace":    "Backspace",
	"delete":       "Delete",
	"del":          "Delete",
	"insert":       "Insert",
	"ins":          "Insert",
	"home":         "Home",
	"end":          "End",
	"pageup":       "PageUp",
	"pgup":         "PageUp",
	"pagedown":     "PageDown",
	"pgdown":       "PageDown",
	"comma":        ",",
	"period":       ".",
	"dot":          ".",
	"slash":        "/",
	"backslash":    "\\",
	"semicolon":    ";",
	"quote":        "'",
	"backquote":    "`",
	"bracketleft":  "[",
	"bracketright": "]",
	"minus":        "-",
	"equal":        "=",
	"plus":         "+",
}

// NormalizeKey returns the canonical spelling of a key token.
// Single characters are upper-cased, known names map to one spelling and
// anything else is returned trimmed.
func NormalizeKey(key string) string {
	if key == " " {
		return "Space"
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	if utf8.RuneCountInString(trimmed) == 1 {
		return strings.ToUpper(trimmed)
	}

	lower := strings.ToLower(trimmed)
	if name, ok := namedKeys[lower]; ok {
		return name
	}
	if fn, ok := functionKey(lower); ok {
		return fn
	}
	return trimmed
}

// functionKey recognizes f1 through f24
func functionKey(lower string) (string, bool) {
	if len(lower) < 2 || lower[0] != 'f' {
		return "", false
	}
	n, err := strconv.Atoi(lower[1:])
	if err != nil || n < 1 || n > 24 {
		return "", false
	}
	return "F" + strconv.Itoa(n), true
}
