package render

import "strings"

// Markdown renders content with a pooled renderer for opts.
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.get(opts)
	if err != nil {
		return "", err
	}
	defer renderers.put(opts, r)

	return r.Render(content)
}

// MarkdownWithWidth renders with DefaultOptions at width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Reply renders an assistant reply for display. Rendering problems never
// hide a reply: the raw text is returned instead.
func Reply(content string, opts Options) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
