package telegram

import (
	"errors"

	"stock-news/repositories/news"
	telegramRepo "stock-news/repositories/telegram"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

type MessageType int

const (
	MessageTypeUnknown MessageType = -1
	MessageTypeWelcome     MessageType = 1
	MessageTypeHelp        MessageType = 2
	MessageTypeSubscribe   MessageType = 3
	MessageTypeUnsubscribe MessageType = 4
)

var (
	ErrTokenIsMissing         = errors.New("telegram token is missing")
	ErrBotNotInitialized      = errors.New("telegram bot  is not ready yet")
	ErrFailedToStartListening = errors.New("telegram bot can't start to listen command")
)

type Service interface {
	ListenAndDispatch() error
	Shutdown()
}

type sender interface {
	SendMessage(chatID int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
}

type Impl struct {
	bot      *gotgbot.Bot
	sender   sender
	updater  *ext.Updater
	newsRepo news.Repository
	chatRepo telegramRepo.Repository
	// chatID receives every digest on top of the subscribed chats, 0 for none.
	chatID int64
}
