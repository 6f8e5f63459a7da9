package audit

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/publicsuffix"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

// bodyScan is what the heading and link checks need from a document body.
type bodyScan struct {
	h1    int
	h2    int
	hrefs []string
}

// scan parses a document body once per run. A body that cannot be parsed is logged and reported as not ok.
func (s *snapshot) scan(ctx context.Context, doc domain.Document) (*bodyScan, bool) {
	if s.scans == nil {
		s.scans = make(map[int64]*bodyScan, len(s.documents))
	}
	if res, ok := s.scans[doc.ID]; ok {
		return res, res != nil
	}

	res, err := scanBody(doc.Body)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("document_id", doc.ID).Msg("skipping unparsable body")
		s.scans[doc.ID] = nil
		return nil, false
	}
	s.scans[doc.ID] = res
	return res, true
}

func scanBody(body string) (*bodyScan, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	res := &bodyScan{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H1:
				res.h1++
			case atom.H2:
				res.h2++
			case atom.A:
				for _, attr := range n.Attr {
					if attr.Key == "href" && strings.TrimSpace(attr.Val) != "" {
						res.hrefs = append(res.hrefs, strings.TrimSpace(attr.Val))
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return res, nil
}

// siteMatcher decides whether a link points back into the audited site.
type siteMatcher struct {
	home string
	host string
	root string
}

func newSiteMatcher(homeURL string) siteMatcher {
	m := siteMatcher{home: strings.TrimRight(homeURL, "/")}
	if u, err := url.Parse(homeURL); err == nil {
		m.host = strings.ToLower(u.Hostname())
		m.root = registrableDomain(m.host)
	}
	return m
}

// isInternal accepts root-relative links and absolute links to the same host or registrable domain.
func (m siteMatcher) isInternal(href string) bool {
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return true
	}
	if m.home != "" && strings.Contains(href, m.home) {
		return true
	}

	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == m.host {
		return true
	}
	return m.root != "" && registrableDomain(host) == m.root
}

// registrableDomain is empty for IP hosts, which only ever match exactly.
func registrableDomain(host string) string {
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}
