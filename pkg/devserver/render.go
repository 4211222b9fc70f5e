package devserver

import (
	"fmt"
	"html"
	"sync"

	"github.com/weft-ui/weft/pkg/element"
)

// HTMLer lets a description supply pre-rendered markup. The markup is
// trusted and inserted without escaping; everything else a render
// function returns is escaped.
type HTMLer interface {
	HTML() string
}

// RenderTarget is the dev server's attachment point: an in-memory HTML
// fragment, one per instance. Every render replaces the fragment's
// content and notifies the owning session.
type RenderTarget struct {
	ElementName string
	InstanceID  uint64

	mu      sync.Mutex
	html    string
	renders int

	// onRender, when set, receives the fragment's new content after
	// each render. The WebSocket session uses it to push frames.
	onRender func(html string)
}

// HTML returns the fragment's current content.
func (t *RenderTarget) HTML() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.html
}

// Renders returns how many times the fragment has been rendered into.
func (t *RenderTarget) Renders() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renders
}

func (t *RenderTarget) set(html string) {
	t.mu.Lock()
	t.html = html
	t.renders++
	notify := t.onRender
	t.mu.Unlock()

	if notify != nil {
		notify(html)
	}
}

// HTMLRenderer renders descriptions into RenderTargets as escaped
// HTML. It implements element.Renderer.
type HTMLRenderer struct{}

// NewHTMLRenderer creates the dev server's renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render implements element.Renderer.
func (r *HTMLRenderer) Render(desc any, target element.Target) error {
	t, ok := target.(*RenderTarget)
	if !ok {
		return fmt.Errorf("devserver: unexpected target type %T", target)
	}
	t.set(RenderHTML(desc))
	return nil
}

// RenderHTML serializes a description to an HTML fragment. A nil
// description yields an empty fragment; HTMLer output is trusted;
// strings, Stringers, and everything else are escaped.
func RenderHTML(desc any) string {
	switch v := desc.(type) {
	case nil:
		return ""
	case HTMLer:
		return v.HTML()
	case string:
		return html.EscapeString(v)
	case fmt.Stringer:
		return html.EscapeString(v.String())
	default:
		return html.EscapeString(fmt.Sprint(v))
	}
}
