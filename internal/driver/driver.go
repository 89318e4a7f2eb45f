// Package driver defines the page-driver capability the crawler depends on.
// The crawl engine never imports a browser automation library directly; the
// playwright adapter lives in internal/browser.
package driver

// Page is a single browsing context: the long-lived listing tab or a
// short-lived scoped tab opened for one detail URL.
//
// Query methods report absence with ok=false and a nil error. An error means
// the driver itself failed (timeout, detached context, closed page).
type Page interface {
	Goto(url string) error
	Reload() error
	// WaitSettled blocks until network and DOM activity settle or the
	// driver's own timeout elapses.
	WaitSettled() error
	URL() string

	// QueryText returns the trimmed text of the first element matching selector.
	QueryText(selector string) (string, bool, error)
	// QueryAttribute returns attribute name of the first element matching selector.
	QueryAttribute(selector, name string) (string, bool, error)
	// QueryAllAttributes returns attribute name of every element matching
	// selector, in document order. Elements without the attribute are skipped.
	QueryAllAttributes(selector, name string) ([]string, error)
	Count(selector string) (int, error)

	Fill(selector, value string) error
	Click(selector string) error
	// Scroll walks the page down to trigger lazy-loaded content.
	Scroll() error
	Screenshot(path string) error
	BringToFront() error
	Close() error
}

// Driver owns the browser session.
type Driver interface {
	// CurrentPage is the listing tab shared sequentially by the crawl loop
	// and the active strategy.
	CurrentPage() Page
	// NewScopedPage opens an exclusively owned tab. The caller must Close it.
	NewScopedPage() (Page, error)
	Close() error
}
