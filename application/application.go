package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"stock-news/controllers"
	"stock-news/models/constants"
	newsRepo "stock-news/repositories/news"
	telegramRepo "stock-news/repositories/telegram"
	"stock-news/routes"
	"stock-news/services/dispatcher"
	"stock-news/services/enricher"
	"stock-news/services/feeds"
	"stock-news/services/health"
	"stock-news/services/poller"
	"stock-news/services/registry"
	"stock-news/services/telegram"
	databases "stock-news/utils/databases"
	"stock-news/utils/dates"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func New(cfg Config) (*Impl, error) {
	db, err := databases.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if errDB := db.Run(); errDB != nil {
		return nil, errDB
	}

	if errMigration := newsRepo.Migrate(db); errMigration != nil {
		db.Shutdown()
		return nil, errMigration
	}
	if errMigration := telegramRepo.Migrate(db); errMigration != nil {
		db.Shutdown()
		return nil, errMigration
	}

	location, found := dates.LoadLocationOrUTC(cfg.FetchTimezone)
	if !found {
		log.Warn().Msgf("Unknown timezone '%s', scheduling in UTC", cfg.FetchTimezone)
	}

	scheduler, errScheduler := gocron.NewScheduler(gocron.WithLocation(location))
	if errScheduler != nil {
		db.Shutdown()
		return nil, errScheduler
	}

	app, errWiring := wire(cfg, db, scheduler)
	if errWiring != nil {
		_ = scheduler.Shutdown()
		db.Shutdown()
		return nil, errWiring
	}
	return app, nil
}

func wire(cfg Config, db databases.SqlConnection, scheduler gocron.Scheduler) (*Impl, error) {
	// Repositories
	newsRepository := newsRepo.New(db)
	chatRepository := telegramRepo.New(db)
	if newsRepository.CountWatched() == 0 {
		if err := newsRepository.SeedWatchlist(context.Background(), cfg.WatchedSymbols); err != nil {
			return nil, err
		}
		log.Info().Strs(constants.LogSymbol, cfg.WatchedSymbols).Msgf("Watchlist seeded")
	}

	source, errSource := feeds.New(feeds.Config{
		Kind:             cfg.NewsSource,
		FinnhubAPIKey:    cfg.FinnhubAPIKey,
		FinnhubBaseURL:   cfg.FinnhubBaseURL,
		RSSURLTemplate:   cfg.RSSURLTemplate,
		TwitterAuthToken: cfg.TwitterAuthToken,
		TwitterCSRFToken: cfg.TwitterCSRFToken,
		UserAgent:        cfg.UserAgent,
		Timeout:          cfg.FetchTimeout,
		LookbackDays:     cfg.LookbackDays,
	})
	if errSource != nil {
		return nil, fmt.Errorf("failed to create news source '%s': %w", cfg.NewsSource, errSource)
	}
	log.Info().Str(constants.LogFeedType, source.Name()).Msgf("News source ready")

	bodyEnricher := enricher.New(enricher.Config{
		Enabled:    cfg.EnrichEnabled,
		Timeout:    cfg.EnrichTimeout,
		FailureTTL: cfg.EnrichFailureTTL,
		UserAgent:  cfg.UserAgent,
	})

	registryService := registry.New()
	dispatcherService := dispatcher.New(newsRepository, source, registryService, bodyEnricher,
		dispatcher.Config{FetchLimit: cfg.FetchLimit})

	pollerService := poller.New(dispatcherService, source, poller.Config{
		Interval:   cfg.FetchInterval,
		DailyHour:  cfg.FetchDailyHour,
		Timezone:   cfg.FetchTimezone,
		RunOnStart: cfg.InitialFetch,
	})

	healthService, errHealth := health.New(scheduler, cfg.HealthCronTab, registryService, db)
	if errHealth != nil {
		return nil, errHealth
	}

	if cfg.EnrichEnabled {
		_, errJob := scheduler.NewJob(
			gocron.CronJob(cfg.BodyBackfillCronTab, false),
			gocron.NewTask(func() {
				if _, _, err := dispatcherService.BackfillBodies(context.Background(), cfg.BodyBackfillLimit); err != nil {
					log.Error().Err(err).Msg("Body backfill failed")
				}
			}),
			gocron.WithName("Backfill article bodies"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if errJob != nil {
			return nil, errJob
		}
	}

	var telegramService telegram.Service
	tg, errTg := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID, newsRepository, chatRepository)
	switch {
	case errTg == nil:
		dispatcherService.RegisterObserver(tg)
		telegramService = tg
	case errors.Is(errTg, telegram.ErrTokenIsMissing):
		log.Info().Msg("Telegram is not configured, digests disabled")
	default:
		return nil, errTg
	}

	router := routes.NewRouter(cfg.Production, cfg.AllowedOrigins)
	routes.SetupRoutes(router,
		controllers.NewNewsController(dispatcherService, newsRepository),
		controllers.NewStreamController(registryService, cfg.AllowedOrigins, cfg.WebSocketWriteTimeout),
		controllers.NewHealthController(healthService),
	)

	return &Impl{
		scheduler:         scheduler,
		db:                db,
		registryService:   registryService,
		dispatcherService: dispatcherService,
		pollerService:     pollerService,
		telegramService:   telegramService,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (app *Impl) Run() error {
	listener, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.server.Addr, err)
	}
	app.listener = listener

	go func() {
		if errServe := app.server.Serve(listener); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Error().Err(errServe).Msg("HTTP server stopped")
		}
	}()
	log.Info().Msgf("Listening on %s", listener.Addr())

	app.scheduler.Start()
	for _, job := range app.scheduler.Jobs() {
		scheduledTime, errNext := job.NextRun()
		if errNext == nil {
			log.Info().Msgf("%v scheduled at %v", job.Name(), scheduledTime)
		}
	}

	app.pollerService.Start()

	if app.telegramService != nil {
		if errTg := app.telegramService.ListenAndDispatch(); errTg != nil {
			log.Error().Err(errTg).Msg("Telegram bot cannot listen, continuing...")
		}
	}

	return nil
}

// Addr is the address the HTTP server listens on once running.
func (app *Impl) Addr() net.Addr {
	if app.listener == nil {
		return nil
	}
	return app.listener.Addr()
}

func (app *Impl) Shutdown() {
	app.pollerService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown HTTP server, continuing...")
	}
	app.registryService.DisconnectAll()

	if err := app.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown scheduler, continuing...")
	}
	app.dispatcherService.Drain()
	if app.telegramService != nil {
		app.telegramService.Shutdown()
	}
	app.db.Shutdown()
	log.Info().Msgf("Application is no longer running")
}
