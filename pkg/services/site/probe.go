package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/wp-sitemap.xml"}

const robotsPath = "/robots.txt"

// Prober answers reachability questions about the audited site.
type Prober struct {
	base   *url.URL
	client *http.Client
}

func NewProber(siteURL string, timeout time.Duration) (*Prober, error) {
	raw := strings.TrimSpace(siteURL)
	if raw == "" {
		return nil, fmt.Errorf("site url is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	base, err := url.Parse(raw)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid site url %q", siteURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Prober{
		base: base,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (p *Prober) HomeURL() string {
	return strings.TrimRight(p.base.String(), "/")
}

func (p *Prober) Host() string {
	return p.base.Hostname()
}

func (p *Prober) IsHTTPS() bool {
	return strings.EqualFold(p.base.Scheme, "https")
}

func (p *Prober) SitemapReachable(ctx context.Context) bool {
	for _, path := range sitemapPaths {
		if p.reachable(ctx, path) {
			return true
		}
	}
	return false
}

func (p *Prober) RobotsReachable(ctx context.Context) bool {
	return p.reachable(ctx, robotsPath)
}

// reachable issues a HEAD request and reports whether it answered 200.
func (p *Prober) reachable(ctx context.Context, path string) bool {
	target := p.base.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("url", target.String()).Msg("probe failed")
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
