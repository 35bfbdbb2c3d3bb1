package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-news/utils/symbols"
)

const mockSourceName = "MockWire"

func NewMock() *Mock {
	return &Mock{now: time.Now}
}

func (service *Mock) Name() string {
	return KindMock
}

// Fetch returns the same limit items on every call, so only the first cycle inserts anything.
func (service *Mock) Fetch(_ context.Context, symbol string, _ *time.Time, limit int) ([]Item, error) {
	symbol = symbols.Normalize(symbol)
	now := service.now().UTC()
	source := mockSourceName
	summary := "Demo data because FINNHUB_API_KEY is not configured."

	items := make([]Item, 0, limit)
	for i := 0; i < limit; i++ {
		publishedAt := now
		items = append(items, Item{
			Symbol:      symbol,
			Headline:    fmt.Sprintf("%s update %d", symbol, i+1),
			Summary:     &summary,
			URL:         fmt.Sprintf("https://example.com/%s/%d", strings.ToLower(symbol), i),
			Source:      &source,
			PublishedAt: &publishedAt,
			ExternalID:  fmt.Sprintf("%s-%d", symbol, i),
		})
	}
	return items, nil
}

func (service *Mock) Close() error {
	return nil
}
