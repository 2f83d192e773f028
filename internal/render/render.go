package render

import "strings"

// Markdown renders markdown content for terminal display
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.get(opts)
	if err != nil {
		return "", err
	}
	return r.render(content)
}

// Reply renders a (possibly still streaming) assistant reply. A reply cut
// off mid code block still renders; on any renderer failure the raw text is
// returned so the transcript never goes blank.
func Reply(content string, opts Options) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	out, err := Markdown(closeOpenFence(content), opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// closeOpenFence appends a closing ``` when content has an odd number of
// fence lines.
func closeOpenFence(content string) string {
	open := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			open = !open
		}
	}
	if !open {
		return content
	}
	if strings.HasSuffix(content, "\n") {
		return content + "```"
	}
	return content + "\n```"
}
