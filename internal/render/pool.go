package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// glamour.TermRenderer must not be shared between concurrent Render calls,
// so each Options value gets its own sync.Pool of renderers.
type rendererPool struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var renderers = &rendererPool{pools: make(map[Options]*sync.Pool)}

func (p *rendererPool) pool(opts Options) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sp, ok := p.pools[opts]; ok {
		return sp
	}
	sp := &sync.Pool{}
	p.pools[opts] = sp
	return sp
}

func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	return newRenderer(opts)
}

func (p *rendererPool) put(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.pool(opts).Put(r)
}

func (p *rendererPool) reset() {
	p.mu.Lock()
	p.pools = make(map[Options]*sync.Pool)
	p.mu.Unlock()
}

func (p *rendererPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pools)
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}

	if name, ok := standardStyle(opts.Style); ok {
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(name))
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStylePath(opts.Style))
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ResetPool drops every pooled renderer.
func ResetPool() {
	renderers.reset()
}
