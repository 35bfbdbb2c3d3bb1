package constants

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	ConfigFileName = ".env"
	ExternalName   = "Stock News Service"
	Version        = "1.0.0"

	// Zerolog values from [trace, debug, info, warn, error, fatal, panic].
	LogLevel = "LOG_LEVEL"

	// Boolean; gin release mode and startup fetches.
	Production = "PRODUCTION"

	// HTTP listen port for the API and the websocket endpoint.
	HTTPPort = "HTTP_PORT"

	// Comma separated list of CORS origins, "*" allows any.
	AllowedOrigins = "ALLOWED_ORIGINS"

	// Either "sqlite" or "postgres".
	DatabaseDriver = "DATABASE_DRIVER"

	// SQLITE_URL URL.
	SqliteURL = "SQLITE_URL"

	// Postgres DSN, used when DATABASE_DRIVER is postgres.
	DatabaseURL = "DATABASE_URL"

	// One of [finnhub, rss, twitter, mock].
	NewsSource = "NEWS_SOURCE"

	//nolint:gosec // False positive.
	FinnhubAPIKey = "FINNHUB_API_KEY"

	FinnhubAPIBaseURL = "FINNHUB_API_BASE_URL"

	// RSS URL with a single %s placeholder for the symbol.
	RSSFeedURLTemplate = "RSS_FEED_URL_TEMPLATE"

	//nolint:gosec // False positive.
	// Auth token used when logged in to Twitter.
	TwitterAuthToken = "TWITTER_AUTH_TOKEN"

	//nolint:gosec // False positive.
	// CSRF token used when logged in to Twitter.
	TwitterCSRFToken = "TWITTER_CSRF_TOKEN"

	UserAgent = "USER_AGENT"

	// Source feed request timeout. Duration type.
	FetchTimeout = "FETCH_TIMEOUT"

	// Max articles requested per symbol and cycle.
	FetchLimit = "FETCH_LIMIT"

	// Days looked back when a symbol has never been fetched.
	FetchLookbackDays = "FETCH_LOOKBACK_DAYS"

	// Poll interval, used when FETCH_DAILY_HOUR is negative.
	FetchIntervalSeconds = "FETCH_INTERVAL_SECONDS"

	// Hour of day [0-23] for the daily poll, negative to poll on interval.
	FetchDailyHour = "FETCH_DAILY_HOUR"

	FetchTimezone = "FETCH_TIMEZONE"

	InitialFetchOnStartup = "INITIAL_FETCH_ON_STARTUP"

	EnrichEnabled = "ENRICH_ENABLED"

	// Duration type.
	EnrichTimeout = "ENRICH_TIMEOUT"

	// How long a failing URL is skipped by the enricher. Duration type.
	EnrichFailureTTL = "ENRICH_FAILURE_TTL"

	// Cron tab to fill missing article bodies.
	BodyBackfillCronTab = "BODY_BACKFILL_CRON_TAB"

	BodyBackfillLimit = "BODY_BACKFILL_LIMIT"

	// Cron tab to health.
	HealthCronTab = "HEALTH_CRON_TAB"

	// Comma separated symbols seeded into an empty watchlist.
	WatchedSymbols = "WATCHED_SYMBOLS"

	// Websocket write deadline. Duration type.
	WebSocketWriteTimeout = "WS_WRITE_TIMEOUT"

	// TELEGRAM BOT
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"
	TelegramChatID   = "TELEGRAM_CHAT_ID"

	MinFetchIntervalSeconds = 15

	defaultHTTPPort              = 8000
	defaultAllowedOrigins        = "*"
	defaultDatabaseDriver        = "sqlite"
	defaultSqliteURL             = "stock-news.db"
	defaultDatabaseURL           = "host=localhost user=postgres password=postgres dbname=stockapp port=5432 sslmode=disable"
	defaultNewsSource            = "finnhub"
	defaultFinnhubAPIKey         = ""
	defaultFinnhubAPIBaseURL     = "https://finnhub.io/api/v1/company-news"
	defaultRSSFeedURLTemplate    = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"
	defaultTwitterAuthToken      = ""
	defaultTwitterCSRFToken      = ""
	defaultUserAgent             = "stock-news/1.0"
	defaultFetchTimeout          = 15 * time.Second
	defaultFetchLimit            = 5
	defaultFetchLookbackDays     = 3
	defaultFetchIntervalSeconds  = 60
	defaultFetchDailyHour        = 9
	defaultFetchTimezone         = "Asia/Seoul"
	defaultInitialFetch          = true
	defaultEnrichEnabled         = true
	defaultEnrichTimeout         = 20 * time.Second
	defaultEnrichFailureTTL      = time.Hour
	defaultBodyBackfillCronTab   = "*/30 * * * *"
	defaultBodyBackfillLimit     = 20
	defaultHealthCrontab         = "*/5 * * * *"
	defaultWatchedSymbols        = "AAPL,MSFT"
	defaultWebSocketWriteTimeout = 10 * time.Second
	defaultTelegramBotToken      = ""
	defaultTelegramChatID        = 0
	defaultLogLevel              = zerolog.InfoLevel
	defaultProduction            = false
)

func GetDefaultConfigValues() map[string]any {
	return map[string]any{
		LogLevel:              defaultLogLevel.String(),
		Production:            defaultProduction,
		HTTPPort:              defaultHTTPPort,
		AllowedOrigins:        defaultAllowedOrigins,
		DatabaseDriver:        defaultDatabaseDriver,
		SqliteURL:             defaultSqliteURL,
		DatabaseURL:           defaultDatabaseURL,
		NewsSource:            defaultNewsSource,
		FinnhubAPIKey:         defaultFinnhubAPIKey,
		FinnhubAPIBaseURL:     defaultFinnhubAPIBaseURL,
		RSSFeedURLTemplate:    defaultRSSFeedURLTemplate,
		TwitterAuthToken:      defaultTwitterAuthToken,
		TwitterCSRFToken:      defaultTwitterCSRFToken,
		UserAgent:             defaultUserAgent,
		FetchTimeout:          defaultFetchTimeout,
		FetchLimit:            defaultFetchLimit,
		FetchLookbackDays:     defaultFetchLookbackDays,
		FetchIntervalSeconds:  defaultFetchIntervalSeconds,
		FetchDailyHour:        defaultFetchDailyHour,
		FetchTimezone:         defaultFetchTimezone,
		InitialFetchOnStartup: defaultInitialFetch,
		EnrichEnabled:         defaultEnrichEnabled,
		EnrichTimeout:         defaultEnrichTimeout,
		EnrichFailureTTL:      defaultEnrichFailureTTL,
		BodyBackfillCronTab:   defaultBodyBackfillCronTab,
		BodyBackfillLimit:     defaultBodyBackfillLimit,
		HealthCronTab:         defaultHealthCrontab,
		WatchedSymbols:        defaultWatchedSymbols,
		WebSocketWriteTimeout: defaultWebSocketWriteTimeout,
		TelegramBotToken:      defaultTelegramBotToken,
		TelegramChatID:        defaultTelegramChatID,
	}
}
