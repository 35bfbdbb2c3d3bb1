package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"stock-news/models/entities"
	"stock-news/pkg/observer"
	"stock-news/repositories/news"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

type sentMessage struct {
	chatID int64
	text   string
	mode   string
}

type fakeSender struct {
	sent []sentMessage
}

func (s *fakeSender) SendMessage(chatID int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error) {
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text, mode: opts.ParseMode})
	return &gotgbot.Message{}, nil
}

type fakeChatRepo struct {
	chats map[int64]entities.TelegramChat
	err   error
}

func newFakeChatRepo(chatIDs ...int64) *fakeChatRepo {
	repo := &fakeChatRepo{chats: map[int64]entities.TelegramChat{}}
	for _, id := range chatIDs {
		repo.chats[id] = entities.TelegramChat{ChatID: id}
	}
	return repo
}

func (repo *fakeChatRepo) Save(_ context.Context, chat entities.TelegramChat) error {
	if repo.err != nil {
		return repo.err
	}
	repo.chats[chat.ChatID] = chat
	return nil
}

func (repo *fakeChatRepo) Delete(_ context.Context, chatID int64) error {
	if repo.err != nil {
		return repo.err
	}
	delete(repo.chats, chatID)
	return nil
}

func (repo *fakeChatRepo) FetchAll(_ context.Context) ([]entities.TelegramChat, error) {
	if repo.err != nil {
		return nil, repo.err
	}
	chats := make([]entities.TelegramChat, 0, len(repo.chats))
	for _, chat := range repo.chats {
		chats = append(chats, chat)
	}
	return chats, nil
}

type fakeNewsRepo struct {
	news.Repository
	articles []entities.Article
	filter   []string
	err      error
}

func (repo *fakeNewsRepo) FetchLatest(_ context.Context, filter []string, limit int) ([]entities.Article, error) {
	repo.filter = filter
	if repo.err != nil {
		return nil, repo.err
	}
	if len(repo.articles) > limit {
		return repo.articles[:limit], nil
	}
	return repo.articles, nil
}

func newsArticles(n int, published time.Time) []entities.Article {
	source := "Reuters"
	articles := make([]entities.Article, 0, n)
	for i := 0; i < n; i++ {
		at := published
		articles = append(articles, entities.Article{
			ID:          uint(i + 1),
			Symbol:      "AAPL",
			Headline:    fmt.Sprintf("Headline_%d", i),
			URL:         fmt.Sprintf("https://n.example/%d", i),
			Source:      &source,
			PublishedAt: &at,
		})
	}
	return articles
}

func TestOnNotifySendsDigestToChat(t *testing.T) {
	sender := &fakeSender{}
	service := &Impl{sender: sender, chatRepo: newFakeChatRepo(), chatID: 42}

	service.OnNotify(observer.NewNewsEvent("AAPL", newsArticles(2, time.Now().Add(-3*time.Hour))))

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.chatID != 42 || msg.mode != "Markdown" {
		t.Errorf("unexpected target %+v", msg)
	}
	if !strings.Contains(msg.text, "*AAPL* – 2 new article(s)") {
		t.Errorf("missing digest title in %q", msg.text)
	}
	if !strings.Contains(msg.text, "[Headline\\_0](https://n.example/0)") {
		t.Errorf("expected escaped headline link in %q", msg.text)
	}
	if !strings.Contains(msg.text, "3 hours ago") {
		t.Errorf("expected humanized publication time in %q", msg.text)
	}
}

func TestOnNotifyIgnoresEmptyBatch(t *testing.T) {
	sender := &fakeSender{}
	service := &Impl{sender: sender, chatRepo: newFakeChatRepo(7), chatID: 42}

	service.OnNotify(observer.NewNewsEvent("AAPL", nil))
	if len(sender.sent) != 0 {
		t.Errorf("expected no message, got %d", len(sender.sent))
	}
}

func TestBuildDigestTruncates(t *testing.T) {
	now := time.Now()
	msg := buildDigest("AAPL", newsArticles(8, now), now)
	if !strings.Contains(msg, "…and 3 more") {
		t.Errorf("expected truncation notice in %q", msg)
	}
	if strings.Contains(msg, "Headline\\_5") {
		t.Errorf("expected sixth headline to be cut in %q", msg)
	}
}

func TestLatestMessage(t *testing.T) {
	repo := &fakeNewsRepo{articles: newsArticles(1, time.Now())}
	service := &Impl{newsRepo: repo}

	msg := service.latestMessage(context.Background(), []string{"/latest", "aapl", "msft"})
	if !strings.Contains(msg, "`AAPL` 🔹 [Headline\\_0]") {
		t.Errorf("unexpected latest message %q", msg)
	}
	if len(repo.filter) != 2 || repo.filter[0] != "AAPL" || repo.filter[1] != "MSFT" {
		t.Errorf("expected normalized filter, got %v", repo.filter)
	}

	service.latestMessage(context.Background(), []string{"/latest"})
	if repo.filter != nil {
		t.Errorf("expected no filter without arguments, got %v", repo.filter)
	}

	repo.articles = nil
	if msg := service.latestMessage(context.Background(), nil); !strings.Contains(msg, "No news") {
		t.Errorf("expected empty notice, got %q", msg)
	}

	repo.err = errors.New("db down")
	if msg := service.latestMessage(context.Background(), nil); !strings.Contains(msg, "Oops") {
		t.Errorf("expected generic error, got %q", msg)
	}
}

func TestOnNotifyReachesSubscribedChats(t *testing.T) {
	sender := &fakeSender{}
	service := &Impl{sender: sender, chatRepo: newFakeChatRepo(42, 7), chatID: 42}

	service.OnNotify(observer.NewNewsEvent("MSFT", newsArticles(1, time.Now())))

	if len(sender.sent) != 2 {
		t.Fatalf("expected two messages without duplicates, got %d", len(sender.sent))
	}
	if sender.sent[0].chatID != 42 || sender.sent[1].chatID != 7 {
		t.Errorf("unexpected recipients %d and %d", sender.sent[0].chatID, sender.sent[1].chatID)
	}

	sender.sent = nil
	service.chatRepo.(*fakeChatRepo).err = errors.New("db down")
	service.OnNotify(observer.NewNewsEvent("MSFT", newsArticles(1, time.Now())))
	if len(sender.sent) != 1 || sender.sent[0].chatID != 42 {
		t.Errorf("expected the configured chat to be served when subscriptions are unavailable, got %+v", sender.sent)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	chatRepo := newFakeChatRepo()
	service := &Impl{chatRepo: chatRepo}

	if msg := service.subscribe(context.Background(), 5, "trader"); !strings.Contains(msg, "Subscription Confirmed") {
		t.Errorf("unexpected subscribe answer %q", msg)
	}
	if chat, ok := chatRepo.chats[5]; !ok || chat.Name != "trader" {
		t.Fatalf("expected chat to be stored, got %+v", chatRepo.chats)
	}

	if msg := service.unsubscribe(context.Background(), 5); !strings.Contains(msg, "Unsubscribed") {
		t.Errorf("unexpected unsubscribe answer %q", msg)
	}
	if len(chatRepo.chats) != 0 {
		t.Errorf("expected chat to be removed")
	}

	chatRepo.err = errors.New("db down")
	if msg := service.subscribe(context.Background(), 5, ""); !strings.Contains(msg, "Oops") {
		t.Errorf("expected generic error, got %q", msg)
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New("", 1, nil, nil); !errors.Is(err, ErrTokenIsMissing) {
		t.Errorf("expected ErrTokenIsMissing, got %v", err)
	}
}
