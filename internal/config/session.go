package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var ErrInvalidSession = errors.New("invalid crawl session")

type Site string

const (
	SiteLiepin  Site = "liepin"
	SiteBoss    Site = "boss"
	SiteZhaopin Site = "zhaopin"
)

var Sites = []Site{SiteLiepin, SiteBoss, SiteZhaopin}

func ParseSite(s string) (Site, error) {
	site := Site(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Sites, site) {
		return "", fmt.Errorf("%w: unknown site %q (want liepin, boss or zhaopin)", ErrInvalidSession, s)
	}
	return site, nil
}

// Session is the immutable description of one crawl run. It is built once
// at startup and passed by value.
type Session struct {
	ID         string
	Site       Site
	Keywords   []string
	MaxPages   int // 0 = unbounded
	OutputPath string
}

func NewSession(id, site string, keywords []string, maxPages int, output string) (Session, error) {
	parsed, err := ParseSite(site)
	if err != nil {
		return Session{}, err
	}
	if maxPages < 0 {
		return Session{}, fmt.Errorf("%w: max pages must be >= 0, got %d", ErrInvalidSession, maxPages)
	}
	if strings.TrimSpace(output) == "" {
		return Session{}, fmt.Errorf("%w: output path is required", ErrInvalidSession)
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return Session{}, fmt.Errorf("%w: session id %q must be a plain directory name", ErrInvalidSession, id)
	}

	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}

	return Session{
		ID:         id,
		Site:       parsed,
		Keywords:   kws,
		MaxPages:   maxPages,
		OutputPath: output,
	}, nil
}

// WithKeywords returns a copy with keywords replaced, used when the operator
// types them at the prompt.
func (s Session) WithKeywords(keywords []string) Session {
	s.Keywords = slices.Clone(keywords)
	return s
}

// ProfileDir is the persistent browser profile for this session.
func (s Session) ProfileDir(root string) string {
	return filepath.Join(root, s.ID)
}
