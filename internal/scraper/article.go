package scraper

import (
	"context"
	"io"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// contentSelectors is the primary cascade for locating the article's content
// region: the semantic container first, then common wrapper classes, the main
// role, and site-specific class names. First selector that matches wins.
var contentSelectors = []string{
	"article",
	".entry-content",
	".article-content",
	".post-content",
	`[role="main"]`,
	".body-content",
	".page-content",
}

// contentClassRe is the loose structural fallback when no selector matches
var contentClassRe = regexp.MustCompile(`(?i)(content|entry|post)`)

const (
	chromeSelector   = "script, style, nav, header, footer, aside"
	fragmentSelector = "p, blockquote, li, h2, h3"
	minFragmentLen   = 20
)

// FetchArticleBody fetches an article page and extracts best-effort plain
// text. It never fails past its own boundary: network, status, and parse
// errors are logged and yield an empty body for that entry only.
func (s *Scraper) FetchArticleBody(ctx context.Context, articleURL string) string {
	resp, err := s.get(ctx, articleURL)
	if err != nil {
		log.Printf("Failed to fetch article %s: %v", articleURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Unexpected status %d for article %s", resp.StatusCode, articleURL)
		return ""
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read article %s: %v", articleURL, err)
		return ""
	}

	return s.extractBody(string(raw), articleURL)
}

// extractBody applies the cascading content-region strategy to raw HTML:
// selector cascade, structural fallback, whole-body retry, and finally a
// readability pass over the original document.
func (s *Scraper) extractBody(html, articleURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Failed to parse article %s: %v", articleURL, err)
		return ""
	}

	if region := findContentRegion(doc); region != nil {
		if text := regionText(region); text != "" {
			return text
		}
	}

	// Last resort before readability: the whole document body
	if text := regionText(doc.Find("body")); text != "" {
		return text
	}

	// Hand readability the chrome-stripped document, never the raw page,
	// so navigation and footer text cannot come back as body content.
	stripped, err := doc.Html()
	if err != nil {
		return ""
	}
	return readabilityText(stripped, articleURL)
}

// findContentRegion returns the first element matched by the selector
// cascade, else the main/article landmark, else any container whose class
// looks content-like. Returns nil when nothing plausible exists.
func findContentRegion(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}

	if sel := doc.Find("main"); sel.Length() > 0 {
		return sel.First()
	}

	var match *goquery.Selection
	doc.Find("div[class], section[class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if contentClassRe.MatchString(class) {
			match = sel
			return false
		}
		return true
	})
	return match
}

// regionText strips layout chrome from the region, then collects paragraph
// and block-level fragments longer than minFragmentLen. Short fragments are
// captions, labels, and empty wrappers, not content.
func regionText(region *goquery.Selection) string {
	region.Find(chromeSelector).Remove()

	var fragments []string
	region.Find(fragmentSelector).Each(func(_ int, sel *goquery.Selection) {
		text := collapseWhitespace(sel.Text())
		if len(text) > minFragmentLen {
			fragments = append(fragments, text)
		}
	})

	return strings.Join(fragments, "\n\n")
}

func readabilityText(html, articleURL string) string {
	pageURL, err := url.Parse(articleURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
