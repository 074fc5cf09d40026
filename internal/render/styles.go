package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// Style names accepted in markdown.style besides glamour's own.
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleTokyoNight = "tokyonight"
	StyleCatppuccin = "catppuccin"
	StyleNoTTY      = "notty"
)

// styleAliases maps the TUI palette names onto the closest glamour style.
var styleAliases = map[string]string{
	StyleTokyoNight: styles.TokyoNightStyle,
	StyleCatppuccin: styles.DarkStyle,
	"nord":          styles.DarkStyle,
	"plain":         styles.NoTTYStyle,
}

// standardStyle resolves name to a glamour standard style. The second
// result is false when name should be treated as a style file path.
func standardStyle(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := styleAliases[name]; ok {
		name = alias
	}
	if _, ok := styles.DefaultStyles[name]; ok {
		return name, true
	}
	return "", false
}

// IsBuiltinStyle reports whether style needs no file on disk.
func IsBuiltinStyle(style string) bool {
	_, ok := standardStyle(style)
	return ok
}

// StyleNames lists every builtin style name, aliases included.
func StyleNames() []string {
	names := make([]string, 0, len(styles.DefaultStyles)+len(styleAliases))
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	for alias := range styleAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}
