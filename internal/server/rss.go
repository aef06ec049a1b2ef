package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/tobin/pressfeed/internal/config"
	"github.com/tobin/pressfeed/internal/scraper"
)

// maxDescriptionLen bounds the body text carried in an item description
const maxDescriptionLen = 5000

// GenerateRSSFeed creates an RSS 2.0 document from the final entry list.
// Entries are emitted in the order given; the scraper has already sorted
// them newest-first.
func GenerateRSSFeed(entries []*scraper.Entry, cfg *config.Config) (string, error) {
	now := time.Now()

	feed := &feeds.Feed{
		Title:       cfg.FeedTitle,
		Link:        &feeds.Link{Href: cfg.ListingURL},
		Description: cfg.FeedDescription,
		Created:     now,
		Updated:     now,
	}
	if cfg.FeedImageURL != "" {
		feed.Image = &feeds.Image{
			Url:   cfg.FeedImageURL,
			Title: cfg.FeedTitle,
			Link:  cfg.ListingURL,
		}
	}

	feed.Items = make([]*feeds.Item, 0, len(entries))
	for _, entry := range entries {
		item := &feeds.Item{
			Title:       entry.Title,
			Link:        &feeds.Link{Href: entry.URL},
			Id:          entry.URL,
			IsPermaLink: "true",
			Created:     entry.PublishedAt,
		}

		description := strings.TrimSpace(entry.Body)
		if description != "" {
			if len(description) > maxDescriptionLen {
				description = description[:maxDescriptionLen] + "..."
			}
			item.Description = description
		} else {
			item.Description = fmt.Sprintf("%s: %s", cfg.ItemPrefix, entry.Title)
		}

		feed.Items = append(feed.Items, item)
	}

	// Drop to the RSS-specific representation to set the channel language,
	// which the generic feed type does not carry.
	rssFeed := (&feeds.Rss{Feed: feed}).RssFeed()
	rssFeed.Language = cfg.FeedLanguage

	rss, err := feeds.ToXML(rssFeed)
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}

	return rss, nil
}
