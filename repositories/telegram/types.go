package telegram

import (
	"context"
	"errors"

	"stock-news/models/entities"
	"stock-news/utils/databases"
)

var ErrPersistence = errors.New("telegram persistence error")

type Repository interface {
	// Save is a no-op for an already subscribed chat.
	Save(ctx context.Context, chat entities.TelegramChat) error
	Delete(ctx context.Context, chatID int64) error
	FetchAll(ctx context.Context) ([]entities.TelegramChat, error)
}

type Impl struct {
	db databases.SqlConnection
}
