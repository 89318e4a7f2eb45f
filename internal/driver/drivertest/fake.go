// Package drivertest provides an in-memory driver.Driver for tests. Pages are
// maps from CSS selector to text or attribute values, so strategy and loop
// tests can describe a DOM without a browser.
package drivertest

import (
	"errors"
	"strings"
	"sync"

	"go-jobcrawl/internal/driver"
)

var ErrClosed = errors.New("drivertest: page closed")

// Content is a fake DOM snapshot.
type Content struct {
	Texts map[string]string
	// Attrs is keyed by Key(selector, attribute) and holds values in document order.
	Attrs map[string][]string
}

// Key builds the Attrs key for selector and attribute name.
func Key(selector, name string) string {
	return selector + "@" + name
}

// Route is what a scoped page sees after navigating to a URL.
type Route struct {
	Content Content
	Err     error
	// SettleErr is returned by WaitSettled after navigating here.
	SettleErr error
}

// Page is a fake driver.Page. Exported fields may be inspected by tests once
// the code under test has returned.
type Page struct {
	mu sync.Mutex

	Content Content
	Routes  map[string]Route

	// ClickErr and FillErr are returned by every Click / Fill when set.
	ClickErr error
	FillErr  error
	// OnClick runs after a successful click, e.g. to swap in the next listing page.
	OnClick func(p *Page, selector string)
	// OnReload runs on Reload.
	OnReload func(p *Page)

	Visited     []string
	Clicks      []string
	Filled      map[string]string
	Screenshots []string
	Reloads     int
	Closed      bool

	url       string
	settleErr error
	onClose   func()
}

func NewPage(content Content) *Page {
	return &Page{Content: content}
}

func (p *Page) Goto(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed {
		return ErrClosed
	}
	p.Visited = append(p.Visited, url)
	p.url = url
	if p.Routes == nil {
		return nil
	}
	r, ok := p.Routes[url]
	if !ok {
		p.Content = Content{}
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	p.Content = r.Content
	p.settleErr = r.SettleErr
	return nil
}

func (p *Page) Reload() error {
	p.mu.Lock()
	p.Reloads++
	hook := p.OnReload
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) WaitSettled() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settleErr
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) QueryText(selector string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed {
		return "", false, ErrClosed
	}
	text, ok := p.Content.Texts[selector]
	if !ok || text == "" {
		return "", false, nil
	}
	return text, true, nil
}

func (p *Page) QueryAttribute(selector, name string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed {
		return "", false, ErrClosed
	}
	values := p.Content.Attrs[Key(selector, name)]
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func (p *Page) QueryAllAttributes(selector, name string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed {
		return nil, ErrClosed
	}
	values := p.Content.Attrs[Key(selector, name)]
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

func (p *Page) Count(selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Closed {
		return 0, ErrClosed
	}
	if _, ok := p.Content.Texts[selector]; ok {
		return 1, nil
	}
	prefix := selector + "@"
	for key, values := range p.Content.Attrs {
		if strings.HasPrefix(key, prefix) {
			return len(values), nil
		}
	}
	return 0, nil
}

func (p *Page) Fill(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FillErr != nil {
		return p.FillErr
	}
	if p.Filled == nil {
		p.Filled = make(map[string]string)
	}
	p.Filled[selector] = value
	return nil
}

func (p *Page) Click(selector string) error {
	p.mu.Lock()
	if p.ClickErr != nil {
		p.mu.Unlock()
		return p.ClickErr
	}
	p.Clicks = append(p.Clicks, selector)
	hook := p.OnClick
	p.mu.Unlock()
	if hook != nil {
		hook(p, selector)
	}
	return nil
}

func (p *Page) Scroll() error { return nil }

func (p *Page) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *Page) BringToFront() error { return nil }

func (p *Page) Close() error {
	p.mu.Lock()
	if p.Closed {
		p.mu.Unlock()
		return nil
	}
	p.Closed = true
	hook := p.onClose
	p.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

// SetContent swaps the fake DOM, typically from an OnClick hook.
func (p *Page) SetContent(c Content) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Content = c
}

// Driver is a fake driver.Driver. Scoped pages resolve URLs through Routes.
type Driver struct {
	mu sync.Mutex

	Listing *Page
	Routes  map[string]Route
	// NewPageErr is returned by NewScopedPage when set.
	NewPageErr error

	Opened []*Page
	closed int
}

func NewDriver(listing *Page, routes map[string]Route) *Driver {
	return &Driver{Listing: listing, Routes: routes}
}

func (d *Driver) CurrentPage() driver.Page {
	return d.Listing
}

func (d *Driver) NewScopedPage() (driver.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.NewPageErr != nil {
		return nil, d.NewPageErr
	}
	p := &Page{Routes: d.Routes}
	p.onClose = func() {
		d.mu.Lock()
		d.closed++
		d.mu.Unlock()
	}
	d.Opened = append(d.Opened, p)
	return p, nil
}

// OpenTabs reports scoped pages opened but not yet closed.
func (d *Driver) OpenTabs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Opened) - d.closed
}

func (d *Driver) Close() error { return nil }
