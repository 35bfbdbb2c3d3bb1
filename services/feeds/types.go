package feeds

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stock-news/models/entities"

	"github.com/mmcdole/gofeed"
	twitterscraper "github.com/n0madic/twitter-scraper"
)

const (
	KindFinnhub = "finnhub"
	KindRSS     = "rss"
	KindTwitter = "twitter"
	KindMock    = "mock"

	defaultHeadline = "Untitled"
)

var (
	// ErrTransientFetch marks network, rate limit and upstream failures.
	ErrTransientFetch = errors.New("transient fetch error")
	ErrUnknownSource  = errors.New("unknown news source")
)

// Source returns at most limit items newer than since. No results is an empty slice, not an error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string, since *time.Time, limit int) ([]Item, error)
	Close() error
}

type Item struct {
	Symbol      string
	Headline    string
	Summary     *string
	URL         string
	Source      *string
	PublishedAt *time.Time
	ExternalID  string
}

func (item Item) Article() entities.Article {
	externalID := item.ExternalID
	if externalID == "" {
		externalID = item.URL
	}
	return entities.Article{
		Symbol:      item.Symbol,
		Headline:    item.Headline,
		Summary:     item.Summary,
		URL:         item.URL,
		Source:      item.Source,
		ExternalID:  externalID,
		PublishedAt: item.PublishedAt,
	}
}

type Config struct {
	Kind             string
	FinnhubAPIKey    string
	FinnhubBaseURL   string
	RSSURLTemplate   string
	TwitterAuthToken string
	TwitterCSRFToken string
	UserAgent        string
	Timeout          time.Duration
	LookbackDays     int
}

type Finnhub struct {
	baseURL      string
	apiKey       string
	lookbackDays int
	client       *http.Client
	now          func() time.Time
}

type RSS struct {
	urlTemplate string
	timeout     time.Duration
	feedParser  *gofeed.Parser
}

type Twitter struct {
	scraper *twitterscraper.Scraper
	timeout time.Duration
}

type Mock struct {
	now func() time.Time
}
