package browser

import (
	"errors"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// settleIdleTimeout caps the wait for network idle. Job sites keep
// analytics connections open, so not reaching idle is normal.
const settleIdleTimeout = 5000

// Page adapts playwright.Page to driver.Page.
type Page struct {
	page         playwright.Page
	navTimeout   float64
	queryTimeout float64
}

func (p *Page) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(p.navTimeout),
	})
	return err
}

func (p *Page) Reload() error {
	_, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(p.navTimeout),
	})
	return err
}

func (p *Page) WaitSettled() error {
	if err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(p.navTimeout),
	}); err != nil {
		return err
	}
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(settleIdleTimeout),
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return nil
	}
	return err
}

func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) QueryText(selector string) (string, bool, error) {
	loc := p.page.Locator(selector)
	n, err := loc.Count()
	if err != nil || n == 0 {
		return "", false, err
	}
	text, err := loc.First().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(p.queryTimeout),
	})
	if err != nil {
		return "", false, err
	}
	text = strings.TrimSpace(text)
	return text, text != "", nil
}

func (p *Page) QueryAttribute(selector, name string) (string, bool, error) {
	loc := p.page.Locator(selector)
	n, err := loc.Count()
	if err != nil || n == 0 {
		return "", false, err
	}
	value, err := loc.First().GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(p.queryTimeout),
	})
	if err != nil {
		return "", false, err
	}
	return value, value != "", nil
}

func (p *Page) QueryAllAttributes(selector, name string) ([]string, error) {
	items, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		value, err := item.GetAttribute(name, playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(p.queryTimeout),
		})
		if err != nil {
			return nil, err
		}
		if value != "" {
			values = append(values, value)
		}
	}
	return values, nil
}

func (p *Page) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

func (p *Page) Fill(selector, value string) error {
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(p.queryTimeout),
	})
}

func (p *Page) Click(selector string) error {
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(p.queryTimeout),
	})
}

func (p *Page) Scroll() error {
	return HumanScroll(p.page)
}

func (p *Page) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *Page) BringToFront() error {
	return p.page.BringToFront()
}

func (p *Page) Close() error {
	if p.page.IsClosed() {
		return nil
	}
	return p.page.Close()
}
