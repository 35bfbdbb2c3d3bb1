package registry

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"stock-news/models/entities"
)

type fakeConn struct {
	mu      sync.Mutex
	sent    [][]byte
	failing bool
	closed  int
}

func (conn *fakeConn) Send(payload []byte) error {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.failing {
		return errors.New("broken pipe")
	}
	conn.sent = append(conn.sent, payload)
	return nil
}

func (conn *fakeConn) Close() error {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	conn.closed++
	return nil
}

func (conn *fakeConn) messages(t *testing.T) []Message {
	t.Helper()
	conn.mu.Lock()
	defer conn.mu.Unlock()
	messages := make([]Message, 0, len(conn.sent))
	for _, payload := range conn.sent {
		var message Message
		if err := json.Unmarshal(payload, &message); err != nil {
			t.Fatalf("cannot decode payload %s: %v", payload, err)
		}
		messages = append(messages, message)
	}
	return messages
}

// stuckConn blocks in Send until release is closed.
type stuckConn struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStuckConn() *stuckConn {
	return &stuckConn{entered: make(chan struct{}), release: make(chan struct{})}
}

func (conn *stuckConn) Send([]byte) error {
	conn.once.Do(func() { close(conn.entered) })
	<-conn.release
	return nil
}

func (conn *stuckConn) Close() error { return nil }

func within(t *testing.T, timeout time.Duration, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("%s did not finish within %v", what, timeout)
	}
}

func articles(headlines ...string) []entities.Article {
	result := make([]entities.Article, 0, len(headlines))
	for i, headline := range headlines {
		result = append(result, entities.Article{ID: uint(i + 1), Symbol: "AAPL", Headline: headline, URL: "https://n.example/" + headline})
	}
	return result
}

// assertInverse checks that the topic index is exactly the inverse of the client symbol sets.
func assertInverse(t *testing.T, registry *Impl) {
	t.Helper()
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for id, c := range registry.clients {
		for symbol := range c.symbols {
			if _, ok := registry.topics[symbol][id]; !ok {
				t.Errorf("client %s subscribed to %s but missing from topic", id, symbol)
			}
		}
	}
	for symbol, ids := range registry.topics {
		if len(ids) == 0 {
			t.Errorf("empty topic %s kept in index", symbol)
		}
		for id := range ids {
			c, ok := registry.clients[id]
			if !ok {
				t.Errorf("topic %s references unknown client %s", symbol, id)
				continue
			}
			if _, ok := c.symbols[symbol]; !ok {
				t.Errorf("topic %s references client %s not subscribed to it", symbol, id)
			}
		}
	}
}

func TestSubscribeReplacesSet(t *testing.T) {
	registry := New()
	conn := &fakeConn{}
	id := registry.Register(conn)

	if ack := registry.Subscribe(id, []string{"aapl", "TSLA"}); !reflect.DeepEqual(ack, []string{"AAPL", "TSLA"}) {
		t.Fatalf("unexpected ack %v", ack)
	}
	if ack := registry.Subscribe(id, []string{" msft ", "msft", ""}); !reflect.DeepEqual(ack, []string{"MSFT"}) {
		t.Fatalf("unexpected ack %v", ack)
	}
	assertInverse(t, registry)

	if registry.TopicSize("AAPL") != 0 || registry.TopicSize("TSLA") != 0 {
		t.Errorf("expected old topics to be left")
	}

	if sent := registry.Publish("AAPL", articles("a1")); sent != 0 {
		t.Errorf("expected no delivery for replaced symbol, got %d", sent)
	}
	if sent := registry.Publish("MSFT", articles("m1")); sent != 1 {
		t.Errorf("expected one delivery, got %d", sent)
	}
	if got := conn.messages(t); len(got) != 1 || got[0].Symbol != "MSFT" {
		t.Errorf("unexpected messages %+v", got)
	}
}

func TestSubscribeEmptyClears(t *testing.T) {
	registry := New()
	id := registry.Register(&fakeConn{})
	registry.Subscribe(id, []string{"AAPL"})

	if ack := registry.Subscribe(id, []string{}); len(ack) != 0 {
		t.Fatalf("expected empty ack, got %v", ack)
	}
	if registry.TopicSize("AAPL") != 0 {
		t.Errorf("expected topic to be empty")
	}
	assertInverse(t, registry)
}

func TestSubscribeUnknownConnection(t *testing.T) {
	registry := New()
	if ack := registry.Subscribe("missing", []string{"AAPL"}); ack != nil {
		t.Fatalf("expected nil ack, got %v", ack)
	}
	if registry.TopicSize("AAPL") != 0 {
		t.Errorf("expected no topic for unknown connection")
	}
}

func TestPublishTopicIsolation(t *testing.T) {
	registry := New()
	apple, tesla, both := &fakeConn{}, &fakeConn{}, &fakeConn{}
	registry.Subscribe(registry.Register(apple), []string{"AAPL"})
	registry.Subscribe(registry.Register(tesla), []string{"TSLA"})
	registry.Subscribe(registry.Register(both), []string{"TSLA", "AAPL"})

	if sent := registry.Publish("aapl", articles("a1", "a2")); sent != 2 {
		t.Fatalf("expected 2 deliveries, got %d", sent)
	}

	if got := apple.messages(t); len(got) != 1 || len(got[0].Articles) != 2 {
		t.Errorf("expected one message with both articles, got %+v", got)
	}
	if got := tesla.messages(t); len(got) != 0 {
		t.Errorf("expected nothing for TSLA subscriber, got %+v", got)
	}
	if got := both.messages(t); len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Errorf("unexpected messages %+v", got)
	}
}

func TestPublishEmptyIsNoop(t *testing.T) {
	registry := New()
	conn := &fakeConn{}
	registry.Subscribe(registry.Register(conn), []string{"AAPL"})

	if sent := registry.Publish("AAPL", nil); sent != 0 {
		t.Fatalf("expected no delivery, got %d", sent)
	}
	if len(conn.messages(t)) != 0 {
		t.Errorf("expected no message")
	}
}

func TestPublishDropsFailingConnection(t *testing.T) {
	registry := New()
	healthy, broken := &fakeConn{}, &fakeConn{failing: true}
	healthyID := registry.Register(healthy)
	brokenID := registry.Register(broken)
	registry.Subscribe(healthyID, []string{"AAPL", "MSFT"})
	registry.Subscribe(brokenID, []string{"AAPL", "MSFT"})

	if sent := registry.Publish("AAPL", articles("a1")); sent != 1 {
		t.Fatalf("expected 1 delivery, got %d", sent)
	}
	if len(healthy.messages(t)) != 1 {
		t.Errorf("expected healthy client to receive the message")
	}
	if broken.closed != 1 {
		t.Errorf("expected broken connection to be closed once, got %d", broken.closed)
	}
	if registry.Count() != 1 || registry.Subscriptions(brokenID) != nil {
		t.Errorf("expected broken client to be removed")
	}
	if registry.TopicSize("MSFT") != 1 {
		t.Errorf("expected broken client removed from every topic")
	}
	assertInverse(t, registry)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	registry := New()
	conn := &fakeConn{}
	id := registry.Register(conn)
	registry.Subscribe(id, []string{"AAPL"})

	registry.Disconnect(id, true)
	registry.Disconnect(id, true)
	registry.Disconnect("unknown", true)

	if conn.closed != 1 {
		t.Errorf("expected a single close, got %d", conn.closed)
	}
	if registry.Count() != 0 || registry.TopicSize("AAPL") != 0 {
		t.Errorf("expected registry to be empty")
	}

	keep := &fakeConn{}
	registry.Disconnect(registry.Register(keep), false)
	if keep.closed != 0 {
		t.Errorf("expected connection to stay open")
	}
}

func TestConcurrentMutationsKeepIndexConsistent(t *testing.T) {
	registry := New()
	sets := [][]string{{"AAPL"}, {"MSFT", "TSLA"}, {}, {"AAPL", "NVDA"}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := registry.Register(&fakeConn{})
			for j := 0; j < 50; j++ {
				registry.Subscribe(id, sets[(i+j)%len(sets)])
				registry.Publish("AAPL", articles("a"))
			}
			if i%2 == 0 {
				registry.Disconnect(id, true)
			}
		}(i)
	}
	wg.Wait()

	assertInverse(t, registry)
	if registry.Count() != 8 {
		t.Errorf("expected 8 remaining clients, got %d", registry.Count())
	}
}

func TestDisconnectAll(t *testing.T) {
	registry := New()
	first, second := &fakeConn{}, &fakeConn{}
	registry.Subscribe(registry.Register(first), []string{"AAPL"})
	registry.Subscribe(registry.Register(second), []string{"MSFT"})

	registry.DisconnectAll()

	if registry.Count() != 0 || registry.TopicSize("AAPL") != 0 || registry.TopicSize("MSFT") != 0 {
		t.Errorf("expected registry to be empty")
	}
	if first.closed != 1 || second.closed != 1 {
		t.Errorf("expected every connection closed once")
	}
}

func TestStuckSubscriberDoesNotBlockOtherConnections(t *testing.T) {
	registry := New()
	stuck := newStuckConn()
	registry.Subscribe(registry.Register(stuck), []string{"AAPL"})

	published := make(chan int, 1)
	go func() { published <- registry.Publish("AAPL", articles("a1")) }()
	<-stuck.entered

	within(t, time.Second, "register, subscribe and disconnect", func() {
		other := registry.Register(&fakeConn{})
		registry.Subscribe(other, []string{"AAPL", "MSFT"})
		registry.Subscribe(other, []string{"MSFT"})
		registry.Disconnect(other, true)
	})
	within(t, time.Second, "reads", func() {
		registry.Count()
		registry.TopicSize("AAPL")
	})

	close(stuck.release)
	if sent := <-published; sent != 1 {
		t.Errorf("expected 1 delivery, got %d", sent)
	}
	assertInverse(t, registry)
}

func TestStuckSubscriberDoesNotDelayOthers(t *testing.T) {
	registry := New()
	stuck, fast := newStuckConn(), &fakeConn{}
	registry.Subscribe(registry.Register(stuck), []string{"AAPL"})
	registry.Subscribe(registry.Register(fast), []string{"AAPL"})

	published := make(chan int, 1)
	go func() { published <- registry.Publish("AAPL", articles("a1")) }()
	<-stuck.entered

	deadline := time.Now().Add(time.Second)
	for len(fast.messages(t)) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("fast subscriber got nothing while another one was stuck")
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-published:
		t.Fatalf("expected publish to wait for the stuck subscriber")
	default:
	}

	close(stuck.release)
	if sent := <-published; sent != 2 {
		t.Errorf("expected 2 deliveries, got %d", sent)
	}
}
