package feeds

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stock-news/utils/symbols"

	"github.com/mmcdole/gofeed"
)

func NewRSS(cfg Config) *RSS {
	fp := gofeed.NewParser()
	fp.UserAgent = cfg.UserAgent
	return &RSS{
		urlTemplate: cfg.RSSURLTemplate,
		timeout:     cfg.Timeout,
		feedParser:  fp,
	}
}

func (service *RSS) Name() string {
	return KindRSS
}

func (service *RSS) Fetch(ctx context.Context, symbol string, since *time.Time, limit int) ([]Item, error) {
	symbol = symbols.Normalize(symbol)
	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	feed, err := service.feedParser.ParseURLWithContext(fmt.Sprintf(service.urlTemplate, symbol), ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse feed: %w", ErrTransientFetch, err)
	}

	return itemsFromFeed(feed, symbol, since, limit), nil
}

func itemsFromFeed(feed *gofeed.Feed, symbol string, since *time.Time, limit int) []Item {
	// Newest first, so truncation keeps the latest news.
	sort.SliceStable(feed.Items, func(i, j int) bool {
		return publishedTime(feed.Items[i]).After(publishedTime(feed.Items[j]))
	})

	var source *string
	if feed.Title != "" {
		source = optional(feed.Title)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, feedItem := range feed.Items {
		if feedItem.Link == "" {
			continue
		}
		var publishedAt *time.Time
		if t := publishedTime(feedItem); !t.IsZero() {
			t = t.UTC()
			publishedAt = &t
		}
		if since != nil && publishedAt != nil && !publishedAt.After(*since) {
			continue
		}

		headline := feedItem.Title
		if headline == "" {
			headline = defaultHeadline
		}
		externalID := feedItem.GUID
		if externalID == "" {
			externalID = feedItem.Link
		}

		items = append(items, Item{
			Symbol:      symbol,
			Headline:    headline,
			Summary:     optional(feedItem.Description),
			URL:         feedItem.Link,
			Source:      source,
			PublishedAt: publishedAt,
			ExternalID:  externalID,
		})
	}
	return truncate(items, limit)
}

func publishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func (service *RSS) Close() error {
	return nil
}
