// Package annotate pulls the sentences mentioning search keywords out of a
// job description so the operator can skim why a listing matched.
package annotate

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

const (
	// '.' is not a terminator: "Node.js" and "3.5" stay in one piece.
	sentenceTerminators = "。！？!?\n"
	hitSeparator        = " | "
)

// Annotator matches a fixed keyword list against many descriptions.
type Annotator struct {
	keywords []string // in caller order, empties removed, duplicates kept
	unique   []string // matcher dictionary
	matcher  *ahocorasick.Matcher
}

// New builds an Annotator. Keyword matching is case-sensitive.
func New(keywords []string) *Annotator {
	a := &Annotator{}
	seen := make(map[string]bool)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		a.keywords = append(a.keywords, kw)
		if !seen[kw] {
			seen[kw] = true
			a.unique = append(a.unique, kw)
		}
	}
	if len(a.unique) > 0 {
		a.matcher = ahocorasick.NewStringMatcher(a.unique)
	}
	return a
}

// Annotate returns "[kw]: sentence | sentence | [kw2]: sentence" for every
// keyword found in text, in keyword order then sentence order. ok is false
// when no keyword occurs.
func (a *Annotator) Annotate(text string) (string, bool) {
	if a.matcher == nil || text == "" {
		return "", false
	}

	hits := make(map[string][]string, len(a.unique))
	for _, sentence := range Sentences(text) {
		for _, idx := range a.matcher.MatchThreadSafe([]byte(sentence)) {
			kw := a.unique[idx]
			hits[kw] = append(hits[kw], sentence)
		}
	}
	if len(hits) == 0 {
		return "", false
	}

	groups := make([]string, 0, len(a.keywords))
	for _, kw := range a.keywords {
		sentences, ok := hits[kw]
		if !ok {
			continue
		}
		groups = append(groups, "["+kw+"]: "+strings.Join(sentences, hitSeparator))
	}
	return strings.Join(groups, hitSeparator), true
}

// Annotate is a one-shot helper for callers that do not reuse keywords.
func Annotate(text string, keywords []string) (string, bool) {
	return New(keywords).Annotate(text)
}

// Sentences splits text on the terminator set and trims each piece. Empty
// pieces are dropped.
func Sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(sentenceTerminators, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
