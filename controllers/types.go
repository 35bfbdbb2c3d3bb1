package controllers

import (
	"context"
	"sync"
	"time"

	"stock-news/models/entities"
	"stock-news/services/health"
	"stock-news/services/registry"

	"github.com/gorilla/websocket"
)

const (
	defaultNewsLimit     = 50
	maxNewsLimit         = 200
	defaultBackfillLimit = 20
	maxBackfillLimit     = 200
	maxMessageSize       = 4096
)

type NewsDispatcher interface {
	BroadcastLatest(ctx context.Context, symbols []string) ([]entities.Article, error)
	BackfillBodies(ctx context.Context, limit int) (int, int, error)
}

type NewsReader interface {
	FetchLatest(ctx context.Context, symbols []string, limit int) ([]entities.Article, error)
}

// NewsController handles the news HTTP API
type NewsController struct {
	dispatcher NewsDispatcher
	newsRepo   NewsReader
}

// StreamController upgrades clients to the real-time news channel
type StreamController struct {
	registry     registry.Registry
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

type HealthController struct {
	health health.Service
}

type refreshRequest struct {
	Symbols []string `json:"symbols"`
}

type backfillRequest struct {
	Limit *int `json:"limit"`
}

type backfillResponse struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

// subscribeRequest keeps Symbols as a pointer: an absent field is ignored, an empty list clears.
type subscribeRequest struct {
	Symbols *[]string `json:"symbols"`
}

type ackMessage struct {
	Ack []string `json:"ack"`
}

// socket serializes writes to a websocket connection.
type socket struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
	closeOnce    sync.Once
	closeErr     error
}
