package enricher

import (
	"context"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"

	"stock-news/models/constants"

	readability "github.com/go-shiori/go-readability"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

func New(cfg Config) *Readability {
	return &Readability{
		enabled:   cfg.Enabled,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		client:    &http.Client{},
		failures:  cache.New(cfg.FailureTTL, 2*cfg.FailureTTL),
	}
}

func (service *Readability) Fetch(ctx context.Context, url string) (string, bool) {
	if !service.enabled || url == "" {
		return "", false
	}
	if _, found := service.failures.Get(url); found {
		log.Debug().Str(constants.LogFeedURL, url).Msg("Skipping recently failed URL")
		return "", false
	}

	body, err := service.extract(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str(constants.LogFeedURL, url).Msg("Cannot extract article body, ignored")
		service.failures.SetDefault(url, struct{}{})
		return "", false
	}
	return body, true
}

func (service *Readability) extract(ctx context.Context, url string) (string, error) {
	pageURL, err := nurl.Parse(url)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if service.userAgent != "" {
		req.Header.Set("User-Agent", service.userAgent)
	}

	resp, err := service.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page request failed with status: %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	body := strings.TrimSpace(article.TextContent)
	if body == "" {
		return "", fmt.Errorf("no readable content")
	}
	return body, nil
}
