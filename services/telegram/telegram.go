package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-news/models/constants"
	"stock-news/models/entities"
	"stock-news/pkg/observer"
	"stock-news/repositories/news"
	telegramRepo "stock-news/repositories/telegram"
	"stock-news/utils/symbols"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

const (
	maxDigestArticles = 5
	latestLimit       = 5
)

func New(token string, chatID int64, newsRepo news.Repository, chatRepo telegramRepo.Repository) (*Impl, error) {
	if token == "" {
		return nil, ErrTokenIsMissing
	}

	b, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return nil, ErrBotNotInitialized
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Warn().Err(err).Msg("an error occurred while handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})

	service := Impl{bot: b, sender: b, newsRepo: newsRepo, chatRepo: chatRepo, chatID: chatID}
	dispatcher.AddHandler(handlers.NewCommand("start", service.startCmd))
	dispatcher.AddHandler(handlers.NewCommand("help", service.helpCmd))
	dispatcher.AddHandler(handlers.NewCommand("latest", service.latestCmd))
	dispatcher.AddHandler(handlers.NewCommand("subscribe", service.subscribeCmd))
	dispatcher.AddHandler(handlers.NewCommand("unsubscribe", service.unsubscribeCmd))

	service.updater = ext.NewUpdater(dispatcher, nil)

	return &service, nil
}

func (service *Impl) ListenAndDispatch() error {
	err := service.updater.StartPolling(service.bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return ErrFailedToStartListening
	}

	log.Info().Str("username", service.bot.User.Username).Msg("Telegram bot listening")
	return nil
}

func (service *Impl) Shutdown() {
	if service.updater == nil {
		return
	}
	if err := service.updater.Stop(); err != nil {
		log.Warn().Err(err).Msg("Cannot stop telegram updater, ignored")
	}
}

// OnNotify posts a digest of every published batch to the subscribed chats.
func (service *Impl) OnNotify(e observer.Event) {
	if e.E != observer.NewsEvent || len(e.Articles) == 0 {
		return
	}

	msg := buildDigest(e.Symbol, e.Articles, time.Now())
	for _, chatID := range service.recipients(context.Background()) {
		log.Info().
			Str(constants.LogSymbol, e.Symbol).
			Int64(constants.LogChatID, chatID).
			Msg("Send news digest")
		service.send(chatID, msg)
	}
}

func (service *Impl) recipients(ctx context.Context) []int64 {
	var chatIDs []int64
	if service.chatID != 0 {
		chatIDs = append(chatIDs, service.chatID)
	}

	chats, err := service.chatRepo.FetchAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Cannot load subscribed chats, continuing...")
		return chatIDs
	}
	for _, chat := range chats {
		if chat.ChatID != service.chatID {
			chatIDs = append(chatIDs, chat.ChatID)
		}
	}
	return chatIDs
}

func (service *Impl) startCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "start").Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.send(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeWelcome))
	return nil
}

func (service *Impl) helpCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "help").Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.send(ctx.EffectiveChat.Id, getMessageFromMessageType(MessageTypeHelp))
	return nil
}

func (service *Impl) subscribeCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "subscribe").Str("username", ctx.EffectiveChat.Username).Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.send(ctx.EffectiveChat.Id, service.subscribe(context.Background(), ctx.EffectiveChat.Id, ctx.EffectiveChat.Username))
	return nil
}

func (service *Impl) unsubscribeCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "unsubscribe").Str("username", ctx.EffectiveChat.Username).Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.send(ctx.EffectiveChat.Id, service.unsubscribe(context.Background(), ctx.EffectiveChat.Id))
	return nil
}

func (service *Impl) subscribe(ctx context.Context, chatID int64, name string) string {
	if err := service.chatRepo.Save(ctx, entities.TelegramChat{ChatID: chatID, Name: name}); err != nil {
		log.Error().Err(err).Int64(constants.LogChatID, chatID).Msg("error on saved")
		return getGenericErrorMessage()
	}
	return getMessageFromMessageType(MessageTypeSubscribe)
}

func (service *Impl) unsubscribe(ctx context.Context, chatID int64) string {
	if err := service.chatRepo.Delete(ctx, chatID); err != nil {
		log.Error().Err(err).Int64(constants.LogChatID, chatID).Msg("error on deleted")
		return getGenericErrorMessage()
	}
	return getMessageFromMessageType(MessageTypeUnsubscribe)
}

func (service *Impl) latestCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str("cmd", "latest").Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.send(ctx.EffectiveChat.Id, service.latestMessage(context.Background(), ctx.Args()))
	return nil
}

// latestMessage answers "/latest [SYMBOL...]" from the stored articles.
func (service *Impl) latestMessage(ctx context.Context, args []string) string {
	var filter []string
	if len(args) > 1 {
		filter = symbols.Normalized(args[1:])
	}

	articles, err := service.newsRepo.FetchLatest(ctx, filter, latestLimit)
	if err != nil {
		log.Error().Err(err).Msg("Cannot load latest news")
		return getGenericErrorMessage()
	}
	if len(articles) == 0 {
		return "📭 No news stored yet."
	}
	return buildLatest(articles, time.Now())
}

func (service *Impl) send(chatID int64, msg string) {
	_, err := service.sender.SendMessage(chatID, msg, &gotgbot.SendMessageOpts{ParseMode: "Markdown"})
	if err != nil {
		log.Error().Err(err).Int64(constants.LogChatID, chatID).Msg("Cannot send telegram message")
	}
}

func buildDigest(symbol string, articles []entities.Article, now time.Time) string {
	msg := fmt.Sprintf("📰 *%s* – %d new article(s)\n\n", escapeMarkdown(symbol), len(articles))
	for i, article := range articles {
		if i == maxDigestArticles {
			msg += fmt.Sprintf("…and %d more\n", len(articles)-maxDigestArticles)
			break
		}
		msg += formatArticle(article, now)
	}
	return msg
}

func buildLatest(articles []entities.Article, now time.Time) string {
	msg := "🗞 *Latest news*\n\n"
	for _, article := range articles {
		msg += fmt.Sprintf("`%s` ", article.Symbol) + formatArticle(article, now)
	}
	return msg
}

func formatArticle(article entities.Article, now time.Time) string {
	line := fmt.Sprintf("🔹 [%s](%s)", escapeMarkdown(article.Headline), article.URL)
	if article.Source != nil {
		line += " – " + escapeMarkdown(*article.Source)
	}
	if article.PublishedAt != nil {
		line += fmt.Sprintf(" (%s)", humanize.RelTime(*article.PublishedAt, now, "ago", "from now"))
	}
	return line + "\n"
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func getGenericErrorMessage() string {
	msg := "😔 *Oops! Something Went Wrong*\n\n"
	msg += "I couldn't load the news right now. Wait a moment and try again."
	return msg
}

func getMessageFromMessageType(messageType MessageType) string {
	switch messageType {
	case MessageTypeHelp:
		msg := "🤖 *Stock News* – Help Guide 📢\n\n"
		msg += "📝 *Commands available:*\n"
		msg += "🗞 `/latest` – Show the latest stored headlines.\n"
		msg += "🔎 `/latest AAPL MSFT` – Same, only for these symbols.\n"
		msg += "✅ `/subscribe` – Receive new headlines in this chat.\n"
		msg += "❌ `/unsubscribe` – Stop receiving headlines.\n"
		msg += "💡 `/help` – Show this help message.\n"
		return msg

	case MessageTypeSubscribe:
		msg := "🎉 *Subscription Confirmed!* ✅\n\n"
		msg += "New headlines will be posted here as soon as they are published. Type `/unsubscribe` to stop.\n"
		return msg

	case MessageTypeUnsubscribe:
		msg := "👋 *You've Unsubscribed* ❌\n\n"
		msg += "Type `/subscribe` anytime to receive headlines again.\n"
		return msg

	default:
		msg := "👋 Hi! I'm *Stock News* 🤖\n\n"
		msg += "I post new headlines for the watched symbols as soon as they are published 📨.\n\n"
		msg += "✅ *Want to receive them?* Type `/subscribe`.\n"
		msg += "💬 *Need help?* Type `/help` for a list of commands."
		return msg
	}
}
