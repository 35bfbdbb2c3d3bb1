package observer

import "stock-news/models/entities"

type EventType int

const (
	NewsEvent EventType = 1
)

type Event struct {
	E        EventType
	Symbol   string
	Articles []entities.Article
}

func NewNewsEvent(symbol string, articles []entities.Article) Event {
	return Event{E: NewsEvent, Symbol: symbol, Articles: articles}
}

type Observer interface {
	OnNotify(Event)
}

type Notifier interface {
	RegisterObserver(Observer)
	Notify(Event)
}
