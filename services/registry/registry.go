package registry

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"stock-news/models/constants"
	"stock-news/models/entities"
	"stock-news/utils/symbols"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func New() *Impl {
	return &Impl{
		clients: make(map[ConnID]*client),
		topics:  make(map[string]map[ConnID]struct{}),
	}
}

func (service *Impl) Register(conn Conn) ConnID {
	id := ConnID(uuid.NewString())

	service.mu.Lock()
	service.clients[id] = &client{conn: conn, symbols: make(map[string]struct{})}
	count := len(service.clients)
	service.mu.Unlock()

	log.Debug().
		Str(constants.LogConnID, string(id)).
		Int(constants.LogClientNumber, count).
		Msgf("Client connected")
	return id
}

// Subscribe replaces the symbol set of id and returns it sorted.
func (service *Impl) Subscribe(id ConnID, requested []string) []string {
	wanted := symbols.Set(requested)

	service.mu.Lock()
	defer service.mu.Unlock()

	c, found := service.clients[id]
	if !found {
		return nil
	}

	for symbol := range c.symbols {
		if _, keep := wanted[symbol]; !keep {
			service.leave(symbol, id)
		}
	}
	for symbol := range wanted {
		if _, already := c.symbols[symbol]; !already {
			service.join(symbol, id)
		}
	}
	c.symbols = wanted

	return symbols.Sorted(wanted)
}

// Disconnect is idempotent. The connection is closed outside of the lock when closeConn is set.
func (service *Impl) Disconnect(id ConnID, closeConn bool) {
	service.mu.Lock()
	c, found := service.clients[id]
	if found {
		for symbol := range c.symbols {
			service.leave(symbol, id)
		}
		delete(service.clients, id)
	}
	service.mu.Unlock()

	if !found {
		return
	}

	log.Debug().Str(constants.LogConnID, string(id)).Msgf("Client disconnected")
	if closeConn {
		if err := c.conn.Close(); err != nil {
			log.Debug().Err(err).Str(constants.LogConnID, string(id)).Msgf("Cannot close connection, ignored")
		}
	}
}

// Publish sends one message to every subscriber of symbol and returns the number of successful sends.
// Each subscriber gets its own writer so a slow one only delays itself. A subscriber that cannot be
// reached is disconnected; the others still receive the message.
func (service *Impl) Publish(symbol string, articles []entities.Article) int {
	symbol = symbols.Normalize(symbol)
	if len(articles) == 0 || symbol == "" {
		return 0
	}

	recipients := service.snapshot(symbol)
	if len(recipients) == 0 {
		return 0
	}

	payload, err := json.Marshal(Message{Symbol: symbol, Articles: articles})
	if err != nil {
		log.Error().Err(err).Str(constants.LogSymbol, symbol).Msgf("Cannot marshal message, publish skipped")
		return 0
	}

	var (
		wg        sync.WaitGroup
		delivered atomic.Int64
	)
	for _, r := range recipients {
		wg.Add(1)
		go func(r recipient) {
			defer wg.Done()
			if errSend := r.conn.Send(payload); errSend != nil {
				log.Warn().
					Err(fmt.Errorf("%w: %w", ErrDelivery, errSend)).
					Str(constants.LogConnID, string(r.id)).
					Str(constants.LogSymbol, symbol).
					Msgf("Dropping client")
				service.Disconnect(r.id, true)
				return
			}
			delivered.Add(1)
		}(r)
	}
	wg.Wait()

	return int(delivered.Load())
}

// DisconnectAll closes every connection, used on shutdown.
func (service *Impl) DisconnectAll() {
	service.mu.Lock()
	ids := make([]ConnID, 0, len(service.clients))
	for id := range service.clients {
		ids = append(ids, id)
	}
	service.mu.Unlock()

	for _, id := range ids {
		service.Disconnect(id, true)
	}
}

func (service *Impl) Subscriptions(id ConnID) []string {
	service.mu.Lock()
	defer service.mu.Unlock()

	c, found := service.clients[id]
	if !found {
		return nil
	}
	return symbols.Sorted(c.symbols)
}

func (service *Impl) Count() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.clients)
}

func (service *Impl) TopicSize(symbol string) int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.topics[symbols.Normalize(symbol)])
}

func (service *Impl) snapshot(symbol string) []recipient {
	service.mu.Lock()
	defer service.mu.Unlock()

	subscribers := service.topics[symbol]
	recipients := make([]recipient, 0, len(subscribers))
	for id := range subscribers {
		if c, found := service.clients[id]; found {
			recipients = append(recipients, recipient{id: id, conn: c.conn})
		}
	}
	return recipients
}

// join and leave must be called with mu held.
func (service *Impl) join(symbol string, id ConnID) {
	subscribers, found := service.topics[symbol]
	if !found {
		subscribers = make(map[ConnID]struct{})
		service.topics[symbol] = subscribers
	}
	subscribers[id] = struct{}{}
}

func (service *Impl) leave(symbol string, id ConnID) {
	subscribers, found := service.topics[symbol]
	if !found {
		return
	}
	delete(subscribers, id)
	if len(subscribers) == 0 {
		delete(service.topics, symbol)
	}
}
