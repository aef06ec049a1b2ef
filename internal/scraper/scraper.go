package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tobin/pressfeed/internal/config"
)

// Entry is one discovered article: title, canonical URL, resolved publication
// date, the raw date snippet it was recovered from, and an optional body text
// filled in by the enrichment pass.
type Entry struct {
	Title       string
	URL         string
	PublishedAt time.Time
	RawDate     string
	Body        string
}

// Scraper extracts article entries from the configured listing page
type Scraper struct {
	cfg      *config.Config
	client   *http.Client
	progress *ProgressTracker
}

// New creates a new scraper instance
func New(cfg *config.Config) *Scraper {
	return &Scraper{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		progress: NewProgressTracker(),
	}
}

// Progress returns the tracker for the current or last run
func (s *Scraper) Progress() *ProgressTracker {
	return s.progress
}

const (
	minTitleLen       = 10
	maxAncestorLevels = 5
	unknownDate       = "Unknown"
)

// dateRe matches long-form dates like "November 14, 2025" in ancestor text.
var dateRe = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`)

// navWords mark pagination/navigation captions that are never article titles.
var navWords = []string{"next", "previous", "older", "newer", "page", "»", "«"}

// Run executes the full pipeline: scrape the listing page, then fetch each
// article body sequentially in listing order.
func (s *Scraper) Run(ctx context.Context) ([]*Entry, error) {
	s.progress.SetStage(StageFetching, "fetching listing page")

	entries, err := s.ScrapeListing(ctx)
	if err != nil {
		s.progress.Fail(err)
		return nil, err
	}
	s.progress.SetFound(len(entries))
	log.Printf("Found %d entries", len(entries))

	for i, entry := range entries {
		s.progress.SetItem(i+1, len(entries), entry.URL)
		log.Printf("Fetching article %d/%d: %s", i+1, len(entries), entry.URL)
		entry.Body = s.FetchArticleBody(ctx, entry.URL)
	}

	s.progress.Complete(len(entries))
	return entries, nil
}

// ScrapeListing fetches the listing page and extracts the deduplicated,
// date-sorted entry list. A fetch or parse failure here is fatal for the run.
func (s *Scraper) ScrapeListing(ctx context.Context) ([]*Entry, error) {
	resp, err := s.get(ctx, s.cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch listing page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	return s.ExtractEntries(doc), nil
}

// ExtractEntries walks every hyperlink in the listing document and keeps the
// ones that look like articles: listing-path hrefs with a substantial,
// non-navigational caption. The markup carries no per-article container, so
// publication dates are recovered positionally from nearby ancestor text.
func (s *Scraper) ExtractEntries(doc *goquery.Document) []*Entry {
	var entries []*Entry
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" {
			return
		}

		// Individual article pages, not the archive page itself
		if !strings.Contains(href, s.cfg.ListingPath) || s.isSelfLink(href) {
			return
		}

		// Skip pagination links
		if strings.Contains(href, "/page/") {
			return
		}

		fullURL := href
		if strings.HasPrefix(href, "/") {
			fullURL = s.cfg.BaseURL + href
		}

		title := collapseWhitespace(link.Text())
		if title == "" || len(title) < minTitleLen {
			return
		}

		// The listing page links to itself via a breadcrumb carrying the
		// channel name; it survives the self-link check because of
		// trailing-slash mismatches.
		if s.isChannelTitle(title) {
			return
		}

		if containsNavWord(title) {
			return
		}

		// A single article is frequently linked twice, once on the
		// thumbnail and once on the headline. First occurrence wins.
		if seen[fullURL] {
			return
		}
		seen[fullURL] = true

		entry := &Entry{
			Title:   title,
			URL:     fullURL,
			RawDate: unknownDate,
		}
		if snippet, found := findAncestorDate(link); found {
			entry.RawDate = snippet
			entry.PublishedAt, _ = resolveDate(snippet)
		} else {
			entry.PublishedAt = time.Now().UTC()
		}

		entries = append(entries, entry)
		log.Printf("Found: %.60s... (%s)", entry.Title, entry.RawDate)
	})

	// Newest first; ties keep discovery order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PublishedAt.After(entries[j].PublishedAt)
	})

	return entries
}

// isSelfLink reports whether href is the listing page's own URL, in relative
// or absolute form, ignoring a trailing slash.
func (s *Scraper) isSelfLink(href string) bool {
	h := strings.TrimSuffix(href, "/")
	return h == strings.TrimSuffix(s.cfg.ListingURL, "/") ||
		h == strings.TrimSuffix(s.cfg.ListingPath, "/")
}

// isChannelTitle matches the channel's display name as it appears in the
// listing page's breadcrumb, with plain and HTML-entity ampersand variants.
func (s *Scraper) isChannelTitle(title string) bool {
	return strings.EqualFold(title, s.cfg.ChannelName) ||
		strings.EqualFold(title, strings.ReplaceAll(s.cfg.ChannelName, "&", "&amp;"))
}

func containsNavWord(title string) bool {
	lower := strings.ToLower(title)
	for _, word := range navWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// findAncestorDate climbs up to maxAncestorLevels parents of the link looking
// for a long-form date in the surrounding text. The first match at the
// nearest ancestor level wins; the bound keeps the search from latching onto
// unrelated dates elsewhere on the page.
func findAncestorDate(link *goquery.Selection) (string, bool) {
	parent := link.Parent()
	for i := 0; i < maxAncestorLevels; i++ {
		if parent.Length() == 0 {
			break
		}
		if match := dateRe.FindString(parent.Text()); match != "" {
			return match, true
		}
		parent = parent.Parent()
	}
	return "", false
}

// get issues a GET with the browser-like headers the site expects
func (s *Scraper) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	return s.client.Do(req)
}

// collapseWhitespace trims and folds runs of whitespace into single spaces
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
