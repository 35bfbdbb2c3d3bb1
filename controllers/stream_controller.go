package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"stock-news/models/constants"
	"stock-news/services/registry"
	"stock-news/utils/symbols"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// NewStreamController accepts websocket clients from allowedOrigins, "*" allows any.
func NewStreamController(registry registry.Registry, allowedOrigins []string, writeTimeout time.Duration) *StreamController {
	return &StreamController{
		registry:     registry,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// StreamNews subscribes the client to the symbols of the query, then to every
// {"symbols": [...]} message it sends, answering each with {"ack": [...]}.
// GET /ws/news?symbols=AAPL,MSFT
func (sc *StreamController) StreamNews(c *gin.Context) {
	conn, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	ws := &socket{conn: conn, writeTimeout: sc.writeTimeout}
	id := sc.registry.Register(ws)
	defer sc.registry.Disconnect(id, true)

	if initial := symbols.Parse(c.Query("symbols")); len(initial) > 0 {
		sc.registry.Subscribe(id, initial)
	}

	conn.SetReadLimit(maxMessageSize)
	for {
		_, message, errRead := conn.ReadMessage()
		if errRead != nil {
			if websocket.IsUnexpectedCloseError(errRead, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(errRead).Str(constants.LogConnID, string(id)).Msg("WebSocket read error")
			}
			return
		}

		var request subscribeRequest
		if errJSON := json.Unmarshal(message, &request); errJSON != nil || request.Symbols == nil {
			log.Debug().Str(constants.LogConnID, string(id)).Msg("Ignoring client message")
			continue
		}

		ack := sc.registry.Subscribe(id, *request.Symbols)
		if ack == nil {
			// Dropped by a failed publish in the meantime.
			return
		}
		payload, errJSON := json.Marshal(ackMessage{Ack: ack})
		if errJSON != nil {
			return
		}
		if errSend := ws.Send(payload); errSend != nil {
			return
		}
	}
}

func (s *socket) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *socket) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.mu.Unlock()
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
