package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stock-news/utils/symbols"

	twitterscraper "github.com/n0madic/twitter-scraper"
	"github.com/rs/zerolog/log"
)

const (
	twitterSourceName      = "Twitter"
	twitterAuthTokenCookie = "auth_token"
	twitterCSRFTokenCookie = "ct0"
)

func NewTwitter(cfg Config) *Twitter {
	scraper := twitterscraper.New()
	if cookies := twitterCookies(cfg.TwitterAuthToken, cfg.TwitterCSRFToken); cookies != nil {
		scraper.SetCookies(cookies)
	} else {
		log.Warn().Msg("Twitter tokens are not configured, search will likely be refused")
	}
	return &Twitter{scraper: scraper, timeout: cfg.Timeout}
}

// twitterCookies rebuilds the session of a logged in browser, nil unless both tokens are set.
func twitterCookies(authToken, csrfToken string) []*http.Cookie {
	if authToken == "" || csrfToken == "" {
		return nil
	}
	return []*http.Cookie{
		{Name: twitterAuthTokenCookie, Value: authToken, Path: "/", Secure: true, HttpOnly: true},
		{Name: twitterCSRFTokenCookie, Value: csrfToken, Path: "/", Secure: true},
	}
}

func (service *Twitter) Name() string {
	return KindTwitter
}

// Fetch searches the cashtag of symbol, skipping retweets.
func (service *Twitter) Fetch(ctx context.Context, symbol string, since *time.Time, limit int) ([]Item, error) {
	symbol = symbols.Normalize(symbol)
	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	source := twitterSourceName
	items := make([]Item, 0, limit)
	for result := range service.scraper.SearchTweets(ctx, "$"+symbol, limit) {
		if result.Error != nil {
			return nil, fmt.Errorf("%w: cannot search tweets: %w", ErrTransientFetch, result.Error)
		}
		if result.IsRetweet || result.PermanentURL == "" {
			continue
		}
		publishedAt := result.TimeParsed.UTC()
		if since != nil && !publishedAt.After(*since) {
			continue
		}

		items = append(items, Item{
			Symbol:      symbol,
			Headline:    headlineFromText(result.Text),
			Summary:     optional(result.Text),
			URL:         result.PermanentURL,
			Source:      &source,
			PublishedAt: &publishedAt,
			ExternalID:  result.ID,
		})
	}
	return truncate(items, limit), nil
}

func headlineFromText(text string) string {
	const maxHeadline = 120
	runes := []rune(text)
	if len(runes) == 0 {
		return defaultHeadline
	}
	if len(runes) > maxHeadline {
		return string(runes[:maxHeadline]) + "…"
	}
	return text
}

func (service *Twitter) Close() error {
	return nil
}
