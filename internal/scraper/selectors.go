package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/frontier"

	"golang.org/x/text/unicode/norm"
)

// CleanText normalizes extracted text: NFC form, runs of whitespace
// collapsed to one space, trimmed.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// FirstText returns the cleaned text of the first selector candidate that
// matches with non-empty text. An empty result with a nil error means no
// candidate matched.
func FirstText(page driver.Page, selectors ...string) (string, error) {
	for _, sel := range selectors {
		text, ok, err := page.QueryText(sel)
		if err != nil {
			return "", fmt.Errorf("query %q: %w", sel, err)
		}
		if !ok {
			continue
		}
		if text = CleanText(text); text != "" {
			return text, nil
		}
	}
	return "", nil
}

// FirstRawText is FirstText without whitespace collapsing, for multi-line
// descriptions where line breaks delimit sentences.
func FirstRawText(page driver.Page, selectors ...string) (string, error) {
	for _, sel := range selectors {
		text, ok, err := page.QueryText(sel)
		if err != nil {
			return "", fmt.Errorf("query %q: %w", sel, err)
		}
		if ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(norm.NFC.String(text)), nil
		}
	}
	return "", nil
}

// FirstMatch returns the first submatch of re in the text of the first
// selector candidate that has text.
func FirstMatch(page driver.Page, re *regexp.Regexp, selectors ...string) (string, error) {
	text, err := FirstText(page, selectors...)
	if err != nil || text == "" {
		return "", err
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", nil
	}
	if len(m) > 1 {
		return m[1], nil
	}
	return m[0], nil
}

// LinkQuery describes where a listing page keeps its detail links. Groups
// are tried in order and the first group yielding any href wins, so a site
// redesign can be covered by appending a group.
type LinkQuery struct {
	Groups [][]string
	// Keep filters normalized URLs; nil keeps everything.
	Keep func(url string) bool
}

// CollectLinks runs q against page, normalizes every href against the page
// URL (or base when the page has none) and filters against seen.
func CollectLinks(page driver.Page, base string, q LinkQuery, seen frontier.Set) ([]string, error) {
	if u := page.URL(); u != "" && u != "about:blank" {
		base = u
	}

	var hrefs []string
	for _, group := range q.Groups {
		for _, sel := range group {
			values, err := page.QueryAllAttributes(sel, "href")
			if err != nil {
				return nil, fmt.Errorf("query links %q: %w", sel, err)
			}
			hrefs = append(hrefs, values...)
		}
		if len(hrefs) > 0 {
			break
		}
	}

	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		url, ok := frontier.Normalize(base, href)
		if !ok {
			continue
		}
		if q.Keep != nil && !q.Keep(url) {
			continue
		}
		links = append(links, url)
	}
	return frontier.FilterNew(links, seen), nil
}

// SubmitSearch fills the first present input with the space-joined keywords
// and clicks submit, then waits for the results to settle. It reports false
// when no input is present.
func SubmitSearch(ctx context.Context, page driver.Page, inputs []string, submit string, keywords []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, sel := range inputs {
		n, err := page.Count(sel)
		if err != nil {
			return false, fmt.Errorf("find search input: %w", err)
		}
		if n == 0 {
			continue
		}
		if err := page.Fill(sel, strings.Join(keywords, " ")); err != nil {
			return false, fmt.Errorf("fill search input: %w", err)
		}
		if err := page.Click(submit); err != nil {
			return false, fmt.Errorf("click search: %w", err)
		}
		if err := page.WaitSettled(); err != nil {
			return true, fmt.Errorf("wait for search results: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// ClickNext clicks selector when it is present and its class attribute does
// not contain disabledClass (skipped when empty).
func ClickNext(ctx context.Context, page driver.Page, selector, disabledClass string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n, err := page.Count(selector)
	if err != nil {
		return false, fmt.Errorf("find next control: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if disabledClass != "" {
		class, _, err := page.QueryAttribute(selector, "class")
		if err != nil {
			return false, fmt.Errorf("read next control class: %w", err)
		}
		if strings.Contains(class, disabledClass) {
			return false, nil
		}
	}
	if err := page.Click(selector); err != nil {
		return false, fmt.Errorf("click next control: %w", err)
	}
	return true, nil
}
