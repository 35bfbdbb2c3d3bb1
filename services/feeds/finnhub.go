package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stock-news/utils/dates"
	"stock-news/utils/symbols"
)

type finnhubArticle struct {
	ID       int64  `json:"id"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

func NewFinnhub(cfg Config) *Finnhub {
	return &Finnhub{
		baseURL:      cfg.FinnhubBaseURL,
		apiKey:       cfg.FinnhubAPIKey,
		lookbackDays: cfg.LookbackDays,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		now: time.Now,
	}
}

func (service *Finnhub) Name() string {
	return KindFinnhub
}

func (service *Finnhub) Fetch(ctx context.Context, symbol string, since *time.Time, limit int) ([]Item, error) {
	symbol = symbols.Normalize(symbol)
	now := service.now().UTC()
	start := now.AddDate(0, 0, -service.lookbackDays)
	if since != nil {
		start = since.UTC()
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", dates.DateToString(start, dates.DateFormat))
	params.Set("to", dates.DateToString(now, dates.DateFormat))
	params.Set("token", service.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, service.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := service.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch data: %w", ErrTransientFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API request failed with status: %d", ErrTransientFetch, resp.StatusCode)
	}

	var result []finnhubArticle
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %w", ErrTransientFetch, err)
	}

	items := make([]Item, 0, len(result))
	for _, article := range result {
		if article.URL == "" {
			continue
		}
		var publishedAt *time.Time
		if article.Datetime > 0 {
			t := time.Unix(article.Datetime, 0).UTC()
			publishedAt = &t
		}
		if since != nil && publishedAt != nil && !publishedAt.After(*since) {
			continue
		}

		headline := article.Headline
		if headline == "" {
			headline = defaultHeadline
		}
		externalID := article.URL
		if article.ID != 0 {
			externalID = strconv.FormatInt(article.ID, 10)
		}

		items = append(items, Item{
			Symbol:      symbol,
			Headline:    headline,
			Summary:     optional(article.Summary),
			URL:         article.URL,
			Source:      optional(article.Source),
			PublishedAt: publishedAt,
			ExternalID:  externalID,
		})
	}

	return truncate(items, limit), nil
}

func (service *Finnhub) Close() error {
	service.client.CloseIdleConnections()
	return nil
}
