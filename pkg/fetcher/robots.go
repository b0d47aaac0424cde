package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"

	"github.com/auditkit/auditkit/internal/models"
)

// Indexability checks the site's robots.txt and reports whether it
// permits crawling of the audited path. The lookup is best-effort: a
// missing or unreachable robots.txt yields Available=false, and an
// absent file is treated as allowing all agents.
func (f *Fetcher) Indexability(ctx context.Context, pageURL *url.URL) models.Indexability {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", pageURL.Scheme, pageURL.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return models.Indexability{}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Indexability{}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Indexability{Available: true, AllowsCrawl: true}
	}
	if resp.StatusCode != http.StatusOK {
		return models.Indexability{}
	}

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return models.Indexability{Available: true, RobotsFound: true, AllowsCrawl: true}
	}

	return models.Indexability{
		Available:   true,
		RobotsFound: true,
		AllowsCrawl: robots.TestAgent(pageURL.Path, f.userAgent),
	}
}
