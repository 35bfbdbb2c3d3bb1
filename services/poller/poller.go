package poller

import (
	"context"
	"io"
	"time"

	"stock-news/models/constants"
	"stock-news/utils/dates"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// New returns a stopped poller. source is closed when the poller stops.
func New(broadcaster Broadcaster, source io.Closer, cfg Config) *Impl {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	interval := cfg.Interval
	if minInterval := constants.MinFetchIntervalSeconds * time.Second; interval < minInterval {
		log.Warn().Msgf("Fetch interval %v is too short, using %v", interval, minInterval)
		interval = minInterval
	}

	location, found := dates.LoadLocationOrUTC(cfg.Timezone)
	if !found && cfg.DailyHour != nil {
		log.Warn().Msgf("Unknown timezone '%s', daily fetch falls back to UTC", cfg.Timezone)
	}

	return &Impl{
		broadcaster: broadcaster,
		source:      source,
		interval:    interval,
		dailyHour:   cfg.DailyHour,
		location:    location,
		runOnStart:  cfg.RunOnStart,
		clock:       clock,
		state:       StateStopped,
	}
}

// Start is a no-op unless the poller is stopped.
func (service *Impl) Start() {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.state != StateStopped {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	service.cancel = cancel
	service.done = make(chan struct{})
	service.state = StateRunning
	go service.loop(ctx, service.done)

	log.Info().Msgf("News poller started")
}

// Stop interrupts the wait between cycles, lets an in-flight cycle finish and closes the source.
// It is a no-op unless the poller is running.
func (service *Impl) Stop() {
	service.mu.Lock()
	if service.state != StateRunning {
		service.mu.Unlock()
		return
	}
	service.state = StateStopping
	cancel, done := service.cancel, service.done
	service.mu.Unlock()

	cancel()
	<-done

	if err := service.source.Close(); err != nil {
		log.Warn().Err(err).Msgf("Cannot close news source, ignored")
	}

	service.mu.Lock()
	service.state = StateStopped
	service.mu.Unlock()

	log.Info().Msgf("News poller stopped")
}

func (service *Impl) State() State {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.state
}

// NextWait is the time to sleep from now before the next cycle.
func (service *Impl) NextWait(now time.Time) time.Duration {
	if service.dailyHour != nil {
		return dates.UntilNextDailyRun(now, *service.dailyHour, service.location)
	}
	return service.interval
}

func (service *Impl) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if service.runOnStart {
		service.runCycle(ctx)
	}

	for {
		now := service.clock.Now()
		wait := service.NextWait(now)
		next := now.Add(wait)
		log.Info().
			Str(constants.LogNextRun, next.In(service.location).Format(time.RFC3339)).
			Msgf("Next news check %s", humanize.RelTime(now, next, "from now", "ago"))

		timer := service.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}

		if ctx.Err() != nil {
			return
		}
		service.runCycle(ctx)
	}
}

func (service *Impl) runCycle(ctx context.Context) {
	started := service.clock.Now()
	created, err := service.broadcaster.BroadcastLatest(context.WithoutCancel(ctx), nil)
	if err != nil {
		log.Error().Err(err).Msgf("News cycle finished with errors")
	}
	log.Info().
		Int(constants.LogArticleNumber, len(created)).
		Dur(constants.LogDuration, service.clock.Since(started)).
		Msgf("News cycle done")
}
