package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	// maxRenderers bounds the renderers kept alive. The chat view only
	// varies width (on resize), so a handful covers a session.
	maxRenderers = 4

	// maxRenderedReplies bounds the outputs remembered per renderer
	maxRenderedReplies = 64
)

// replyRenderer is a glamour renderer plus the outputs it already produced.
// The chat view redraws every finished turn on each streamed delta, so most
// calls are repeats. glamour.TermRenderer is not safe for concurrent Render
// calls; mu serializes them.
type replyRenderer struct {
	mu       sync.Mutex
	tr       *glamour.TermRenderer
	rendered map[string]string
}

func (r *replyRenderer) render(content string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if out, ok := r.rendered[content]; ok {
		return out, nil
	}

	out, err := r.tr.Render(content)
	if err != nil {
		return "", err
	}
	if len(r.rendered) >= maxRenderedReplies {
		clear(r.rendered)
	}
	r.rendered[content] = out
	return out, nil
}

// rendererCache maps Options to renderers, dropping the oldest when full
type rendererCache struct {
	mu      sync.Mutex
	entries map[Options]*replyRenderer
	order   []Options
}

var renderers = &rendererCache{entries: make(map[Options]*replyRenderer)}

// get returns the renderer for opts, building it on first use
func (c *rendererCache) get(opts Options) (*replyRenderer, error) {
	opts.Style = CanonicalStyle(opts.Style)

	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.entries[opts]; ok {
		return r, nil
	}

	tr, err := newTermRenderer(opts)
	if err != nil {
		return nil, err
	}

	if len(c.order) >= maxRenderers {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	r := &replyRenderer{tr: tr, rendered: make(map[string]string)}
	c.entries[opts] = r
	c.order = append(c.order, opts)
	return r, nil
}

func (c *rendererCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *rendererCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Options]*replyRenderer)
	c.order = nil
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	style, err := styleOption(opts)
	if err != nil {
		return nil, err
	}

	rendererOpts := []glamour.TermRendererOption{
		style,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}
