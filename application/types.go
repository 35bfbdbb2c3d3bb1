package application

import (
	"net"
	"net/http"

	"stock-news/services/dispatcher"
	"stock-news/services/poller"
	"stock-news/services/registry"
	"stock-news/services/telegram"
	databases "stock-news/utils/databases"

	"github.com/go-co-op/gocron/v2"
)

type Application interface {
	Run() error
	Shutdown()
}

type Impl struct {
	scheduler         gocron.Scheduler
	db                databases.SqlConnection
	registryService   *registry.Impl
	dispatcherService *dispatcher.Impl
	pollerService     *poller.Impl
	telegramService   telegram.Service
	server            *http.Server
	listener          net.Listener
}
