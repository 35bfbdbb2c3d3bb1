package news

import (
	"context"
	"errors"
	"time"

	"stock-news/models/entities"
	"stock-news/utils/databases"

	"gorm.io/gorm"
)

var ErrPersistence = errors.New("persistence error")

type Repository interface {
	// GetWatchedSymbols returns every watched symbol, or only those in symbols when non-empty.
	GetWatchedSymbols(ctx context.Context, symbols []string) ([]entities.WatchedSymbol, error)
	// InsertIfAbsent skips rows whose (symbol, external id) already exists and returns the created ones.
	InsertIfAbsent(ctx context.Context, articles []entities.Article) ([]entities.Article, error)
	// AdvanceCursor never moves a cursor backwards.
	AdvanceCursor(ctx context.Context, symbol string, at time.Time) error
	SetBody(ctx context.Context, articleID uint, body string) error
	// Transaction commits everything fn does through the given repository as one unit.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
	FetchLatest(ctx context.Context, symbols []string, limit int) ([]entities.Article, error)
	FetchMissingBody(ctx context.Context, limit int) ([]entities.Article, error)
	SeedWatchlist(ctx context.Context, symbols []string) error
	CountWatched() int64
}

type Impl struct {
	db databases.SqlConnection
	tx *gorm.DB
}
