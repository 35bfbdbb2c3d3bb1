package dispatcher

import (
	"context"
	"errors"
	"fmt"

	"stock-news/models/constants"
	"stock-news/models/entities"
	"stock-news/pkg/observer"
	"stock-news/repositories/news"
	"stock-news/services/enricher"
	"stock-news/services/feeds"
	"stock-news/utils/symbols"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

func New(newsRepo news.Repository, source feeds.Source, publisher Publisher,
	bodyEnricher enricher.Enricher, cfg Config) *Impl {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Impl{
		newsRepo:   newsRepo,
		source:     source,
		publisher:  publisher,
		enricher:   bodyEnricher,
		fetchLimit: cfg.FetchLimit,
		clock:      clock,
		observers:  map[observer.Observer]struct{}{},
	}
}

// RegisterObserver must be called before the first broadcast.
func (service *Impl) RegisterObserver(o observer.Observer) {
	service.observers[o] = struct{}{}
}

// Notify hands e to every observer on its own goroutine and returns at once.
func (service *Impl) Notify(e observer.Event) {
	for o := range service.observers {
		service.notifying.Add(1)
		go func(o observer.Observer) {
			defer service.notifying.Done()
			o.OnNotify(e)
		}(o)
	}
}

// Drain waits for observers still handling an event.
func (service *Impl) Drain() {
	service.notifying.Wait()
}

// BroadcastLatest fetches, stores and publishes news for every watched symbol, or only for
// the watched ones in filter. An empty filter means every symbol, a filter with only blank
// entries matches none. It returns the articles created by this call. A failing symbol
// does not stop the others; its error is joined into the returned one.
func (service *Impl) BroadcastLatest(ctx context.Context, filter []string) ([]entities.Article, error) {
	var wanted []string
	if len(filter) > 0 {
		wanted = symbols.Normalized(filter)
		if len(wanted) == 0 {
			log.Info().Msgf("Blank symbol filter, nothing to check")
			return make([]entities.Article, 0), nil
		}
	}

	watched, err := service.newsRepo.GetWatchedSymbols(ctx, wanted)
	if err != nil {
		return nil, err
	}

	log.Info().Int(constants.LogSymbolNumber, len(watched)).Msgf("Checking news...")

	var errs []error
	created := make([]entities.Article, 0)
	for _, symbol := range watched {
		articles, errSymbol := service.dispatchSymbol(ctx, symbol)
		if errSymbol != nil {
			log.Error().Err(errSymbol).Str(constants.LogSymbol, symbol.Symbol).Msgf("Cannot dispatch news, ignored")
			errs = append(errs, fmt.Errorf("%s: %w", symbol.Symbol, errSymbol))
			continue
		}
		created = append(created, articles...)
	}

	log.Info().Int(constants.LogArticleNumber, len(created)).Msgf("News checked")
	return created, errors.Join(errs...)
}

func (service *Impl) dispatchSymbol(ctx context.Context, watched entities.WatchedSymbol) ([]entities.Article, error) {
	items, err := service.source.Fetch(ctx, watched.Symbol, watched.LastFetchedAt, service.fetchLimit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	candidates := make([]entities.Article, 0, len(items))
	for _, item := range items {
		article := item.Article()
		article.Symbol = watched.Symbol
		candidates = append(candidates, article)
	}

	var created []entities.Article
	errTx := service.newsRepo.Transaction(ctx, func(repo news.Repository) error {
		var errInsert error
		created, errInsert = repo.InsertIfAbsent(ctx, candidates)
		if errInsert != nil {
			return errInsert
		}
		if len(created) == 0 {
			return nil
		}
		return repo.AdvanceCursor(ctx, watched.Symbol, service.clock.Now().UTC())
	})
	if errTx != nil {
		return nil, errTx
	}
	if len(created) == 0 {
		return nil, nil
	}

	delivered := service.publisher.Publish(watched.Symbol, created)
	log.Info().
		Str(constants.LogSymbol, watched.Symbol).
		Int(constants.LogArticleNumber, len(created)).
		Int(constants.LogClientNumber, delivered).
		Msgf("News published")

	// Observers get their own copy, bodies are filled below.
	service.Notify(observer.NewNewsEvent(watched.Symbol, append([]entities.Article(nil), created...)))

	for i := range created {
		service.enrich(ctx, &created[i])
	}

	return created, nil
}

// enrich stores the article body when one can be extracted and reports whether it did.
func (service *Impl) enrich(ctx context.Context, article *entities.Article) bool {
	if article.Body != nil {
		return false
	}
	body, ok := service.enricher.Fetch(ctx, article.URL)
	if !ok {
		return false
	}
	if err := service.newsRepo.SetBody(ctx, article.ID, body); err != nil {
		log.Warn().Err(err).Uint(constants.LogArticleID, article.ID).Msgf("Cannot store article body, ignored")
		return false
	}
	article.Body = &body
	return true
}

// BackfillBodies enriches up to limit stored articles that still have no body.
func (service *Impl) BackfillBodies(ctx context.Context, limit int) (int, int, error) {
	articles, err := service.newsRepo.FetchMissingBody(ctx, limit)
	if err != nil {
		return 0, 0, err
	}

	updated := 0
	for i := range articles {
		if service.enrich(ctx, &articles[i]) {
			updated++
		}
	}

	log.Info().
		Int(constants.LogArticleNumber, len(articles)).
		Msgf("Body backfill done, %d updated", updated)
	return len(articles), updated, nil
}
