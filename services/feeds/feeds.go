package feeds

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// New picks the configured source. Finnhub without an API key falls back to demo data.
func New(cfg Config) (Source, error) {
	switch strings.ToLower(cfg.Kind) {
	case KindFinnhub, "":
		if cfg.FinnhubAPIKey == "" {
			log.Warn().Msg("FINNHUB_API_KEY is not configured, serving demo news")
			return NewMock(), nil
		}
		return NewFinnhub(cfg), nil
	case KindRSS:
		return NewRSS(cfg), nil
	case KindTwitter:
		return NewTwitter(cfg), nil
	case KindMock:
		return NewMock(), nil
	default:
		return nil, ErrUnknownSource
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func truncate(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
