package render

import (
	"os"

	"github.com/ollamachat/ollamachat/internal/config"
)

// OptionsFromConfig builds render options from cfg at width.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromConfig(cfg config.Config, width int) Options {
	opts := FromMarkdownConfig(cfg.Markdown, 80).WithWidth(width)
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
