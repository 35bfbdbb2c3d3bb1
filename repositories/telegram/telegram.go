package telegram

import (
	"context"
	"fmt"

	"stock-news/models/entities"
	"stock-news/utils/databases"

	"gorm.io/gorm/clause"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

func Migrate(db databases.SqlConnection) error {
	return db.GetDB().AutoMigrate(&entities.TelegramChat{})
}

func (repo *Impl) FetchAll(ctx context.Context) ([]entities.TelegramChat, error) {
	var chats []entities.TelegramChat
	if err := repo.db.GetDB().WithContext(ctx).Order("chat_id").Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list chats: %w", ErrPersistence, err)
	}
	return chats, nil
}

func (repo *Impl) Save(ctx context.Context, chat entities.TelegramChat) error {
	err := repo.db.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&chat).
		Error
	if err != nil {
		return fmt.Errorf("%w: failed to save chat: %w", ErrPersistence, err)
	}
	return nil
}

func (repo *Impl) Delete(ctx context.Context, chatID int64) error {
	if err := repo.db.GetDB().WithContext(ctx).Delete(&entities.TelegramChat{}, chatID).Error; err != nil {
		return fmt.Errorf("%w: failed to delete chat: %w", ErrPersistence, err)
	}
	return nil
}
