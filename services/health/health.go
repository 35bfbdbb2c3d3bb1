package health

import (
	"strings"

	"stock-news/models/constants"

	"github.com/dustin/go-humanize"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const statusOK = "ok"

func New(scheduler gocron.Scheduler, cronTab string, clients ClientCounter, db Database) (*Impl, error) {
	return newWithClock(scheduler, cronTab, clients, db, clockwork.NewRealClock())
}

func newWithClock(scheduler gocron.Scheduler, cronTab string, clients ClientCounter, db Database,
	clock clockwork.Clock) (*Impl, error) {
	service := Impl{clients: clients, db: db, clock: clock, startedAt: clock.Now()}

	_, errJob := scheduler.NewJob(
		gocron.CronJob(cronTab, false),
		gocron.NewTask(func() { service.echo() }),
		gocron.WithName("Check app running"),
	)
	if errJob != nil {
		return nil, errJob
	}

	return &service, nil
}

func (service *Impl) Status() Status {
	return Status{
		Status:   statusOK,
		Database: service.db.IsConnected(),
		Clients:  service.clients.Count(),
		Uptime:   strings.TrimSpace(humanize.RelTime(service.startedAt, service.clock.Now(), "", "")),
	}
}

func (service *Impl) echo() {
	status := service.Status()
	log.Info().
		Int(constants.LogClientNumber, status.Clients).
		Bool("database", status.Database).
		Msgf("Application is running since %s", humanize.Time(service.startedAt))
}
