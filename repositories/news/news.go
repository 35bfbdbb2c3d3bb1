package news

import (
	"context"
	"fmt"
	"time"

	"stock-news/models/entities"
	"stock-news/utils/databases"
	"stock-news/utils/symbols"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

func Migrate(db databases.SqlConnection) error {
	return db.GetDB().AutoMigrate(&entities.WatchedSymbol{}, &entities.Article{})
}

func (repo *Impl) conn(ctx context.Context) *gorm.DB {
	if repo.tx != nil {
		return repo.tx.WithContext(ctx)
	}
	return repo.db.GetDB().WithContext(ctx)
}

func (repo *Impl) GetWatchedSymbols(ctx context.Context, filter []string) ([]entities.WatchedSymbol, error) {
	var watched []entities.WatchedSymbol
	query := repo.conn(ctx).Model(&entities.WatchedSymbol{}).Order("symbol")
	if len(filter) > 0 {
		query = query.Where("symbol IN ?", filter)
	}
	if err := query.Find(&watched).Error; err != nil {
		return nil, persistenceError("failed to load watched symbols", err)
	}
	return watched, nil
}

func (repo *Impl) InsertIfAbsent(ctx context.Context, articles []entities.Article) ([]entities.Article, error) {
	db := repo.conn(ctx)
	created := make([]entities.Article, 0, len(articles))
	for _, article := range articles {
		row := article
		row.ID = 0
		if row.ExternalID == "" {
			row.ExternalID = row.URL
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "external_id"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return nil, persistenceError("failed to insert article", result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}
		created = append(created, row)
	}
	return created, nil
}

func (repo *Impl) AdvanceCursor(ctx context.Context, symbol string, at time.Time) error {
	err := repo.conn(ctx).
		Model(&entities.WatchedSymbol{}).
		Where("symbol = ?", symbol).
		Where("last_fetched_at IS NULL OR last_fetched_at < ?", at).
		Update("last_fetched_at", at).
		Error
	if err != nil {
		return persistenceError("failed to advance cursor", err)
	}
	return nil
}

func (repo *Impl) SetBody(ctx context.Context, articleID uint, body string) error {
	err := repo.conn(ctx).
		Model(&entities.Article{}).
		Where("id = ?", articleID).
		Where("body IS NULL").
		Update("body", body).
		Error
	if err != nil {
		return persistenceError("failed to update article body", err)
	}
	return nil
}

func (repo *Impl) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return repo.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Impl{db: repo.db, tx: tx})
	})
}

func (repo *Impl) FetchLatest(ctx context.Context, filter []string, limit int) ([]entities.Article, error) {
	var articles []entities.Article
	query := repo.conn(ctx).
		Model(&entities.Article{}).
		Order("published_at IS NULL, published_at DESC, id DESC").
		Limit(limit)
	if len(filter) > 0 {
		query = query.Where("symbol IN ?", filter)
	}
	if err := query.Find(&articles).Error; err != nil {
		return nil, persistenceError("failed to list articles", err)
	}
	return articles, nil
}

func (repo *Impl) FetchMissingBody(ctx context.Context, limit int) ([]entities.Article, error) {
	var articles []entities.Article
	err := repo.conn(ctx).
		Model(&entities.Article{}).
		Where("body IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&articles).
		Error
	if err != nil {
		return nil, persistenceError("failed to list articles without body", err)
	}
	return articles, nil
}

func (repo *Impl) SeedWatchlist(ctx context.Context, values []string) error {
	db := repo.conn(ctx)
	for _, symbol := range symbols.Normalized(values) {
		err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "symbol"}}, DoNothing: true}).
			Create(&entities.WatchedSymbol{Symbol: symbol}).
			Error
		if err != nil {
			return persistenceError("failed to seed watchlist", err)
		}
	}
	return nil
}

func (repo *Impl) CountWatched() int64 {
	count := new(int64)
	repo.db.GetDB().Model(&entities.WatchedSymbol{}).Count(count)

	return *count
}

func persistenceError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, action, err)
}
