package registry

import (
	"errors"
	"sync"

	"stock-news/models/entities"
)

// ErrDelivery wraps a send failure to a single connection.
var ErrDelivery = errors.New("delivery failed")

// ConnID is opaque to callers; it never reveals the underlying connection.
type ConnID string

// Conn is the write side of a real-time channel.
type Conn interface {
	Send(payload []byte) error
	Close() error
}

type Registry interface {
	Register(conn Conn) ConnID
	Subscribe(id ConnID, symbols []string) []string
	Disconnect(id ConnID, closeConn bool)
	DisconnectAll()
	Publish(symbol string, articles []entities.Article) int
	Subscriptions(id ConnID) []string
	Count() int
	TopicSize(symbol string) int
}

type Message struct {
	Symbol   string            `json:"symbol"`
	Articles []entities.Article `json:"articles"`
}

type Impl struct {
	mu      sync.Mutex
	clients map[ConnID]*client
	topics  map[string]map[ConnID]struct{}
}

type client struct {
	conn    Conn
	symbols map[string]struct{}
}

type recipient struct {
	id   ConnID
	conn Conn
}
