// Package frontier tracks which detail links a crawl session has already
// visited and filters freshly discovered links against that history.
package frontier

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Set is a read view of visited URLs handed to strategies.
type Set = mapset.Set[string]

// NewSet returns an empty Set. The crawl loop is single-threaded so the
// unsafe variant is used.
func NewSet(urls ...string) Set {
	return mapset.NewThreadUnsafeSet(urls...)
}

// Frontier is the session-lifetime history of visited links. It is not
// persisted across runs.
type Frontier struct {
	seen Set
}

func New() *Frontier {
	return &Frontier{seen: NewSet()}
}

// FilterNew keeps the candidates not in seen, in input order, dropping
// repeats within the batch (first occurrence wins).
func FilterNew(candidates []string, seen Set) []string {
	fresh := make([]string, 0, len(candidates))
	batch := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c == "" || batch[c] {
			continue
		}
		if seen != nil && seen.Contains(c) {
			continue
		}
		batch[c] = true
		fresh = append(fresh, c)
	}
	return fresh
}

// FilterNew filters candidates against this frontier's history.
func (f *Frontier) FilterNew(candidates []string) []string {
	return FilterNew(candidates, f.seen)
}

// MarkSeen records url. It reports whether url was new.
func (f *Frontier) MarkSeen(url string) bool {
	return f.seen.Add(url)
}

func (f *Frontier) Seen(url string) bool {
	return f.seen.Contains(url)
}

func (f *Frontier) Len() int {
	return f.seen.Cardinality()
}

// Set exposes the history for strategies. Callers must not mutate it.
func (f *Frontier) Set() Set {
	return f.seen
}
