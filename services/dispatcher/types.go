package dispatcher

import (
	"sync"

	"stock-news/models/entities"
	"stock-news/pkg/observer"
	"stock-news/repositories/news"
	"stock-news/services/enricher"
	"stock-news/services/feeds"

	"github.com/jonboulle/clockwork"
)

type Publisher interface {
	Publish(symbol string, articles []entities.Article) int
}

type Config struct {
	FetchLimit int
	Clock      clockwork.Clock
}

type Impl struct {
	newsRepo   news.Repository
	source     feeds.Source
	publisher  Publisher
	enricher   enricher.Enricher
	fetchLimit int
	clock      clockwork.Clock
	observers  map[observer.Observer]struct{}
	notifying  sync.WaitGroup
}
