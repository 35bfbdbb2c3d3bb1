package health

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type ClientCounter interface {
	Count() int
}

type Database interface {
	IsConnected() bool
}

type Status struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Clients  int    `json:"clients"`
	Uptime   string `json:"uptime"`
}

type Service interface {
	Status() Status
}

type Impl struct {
	clients   ClientCounter
	db        Database
	clock     clockwork.Clock
	startedAt time.Time
}
