package poller

import (
	"context"
	"io"
	"sync"
	"time"

	"stock-news/models/entities"

	"github.com/jonboulle/clockwork"
)

type State int

const (
	StateStopped State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

type Broadcaster interface {
	BroadcastLatest(ctx context.Context, symbols []string) ([]entities.Article, error)
}

type Config struct {
	Interval time.Duration
	// DailyHour switches to one run a day at that hour when set.
	DailyHour  *int
	Timezone   string
	RunOnStart bool
	Clock      clockwork.Clock
}

type Impl struct {
	broadcaster Broadcaster
	source      io.Closer
	interval    time.Duration
	dailyHour   *int
	location    *time.Location
	runOnStart  bool
	clock       clockwork.Clock

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}
