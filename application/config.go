package application

import (
	"fmt"
	"strings"
	"time"

	"stock-news/models/constants"
	"stock-news/utils/databases"
	"stock-news/utils/symbols"

	"github.com/spf13/viper"
)

type Config struct {
	Production     bool
	HTTPPort       int
	AllowedOrigins []string

	DatabaseDriver string
	DatabaseDSN    string

	NewsSource       string
	FinnhubAPIKey    string
	FinnhubBaseURL   string
	RSSURLTemplate   string
	TwitterAuthToken string
	TwitterCSRFToken string
	UserAgent        string
	FetchTimeout     time.Duration
	FetchLimit       int
	LookbackDays     int

	FetchInterval time.Duration
	// FetchDailyHour is nil when polling on interval.
	FetchDailyHour *int
	FetchTimezone  string
	InitialFetch   bool

	EnrichEnabled    bool
	EnrichTimeout    time.Duration
	EnrichFailureTTL time.Duration

	BodyBackfillCronTab string
	BodyBackfillLimit   int
	HealthCronTab       string

	WatchedSymbols        []string
	WebSocketWriteTimeout time.Duration

	TelegramBotToken string
	TelegramChatID   int64
}

// LoadConfig reads every setting from viper once; services never read viper themselves.
func LoadConfig() (Config, error) {
	cfg := Config{
		Production:            viper.GetBool(constants.Production),
		HTTPPort:              viper.GetInt(constants.HTTPPort),
		AllowedOrigins:        splitList(viper.GetString(constants.AllowedOrigins)),
		DatabaseDriver:        strings.ToLower(viper.GetString(constants.DatabaseDriver)),
		NewsSource:            strings.ToLower(viper.GetString(constants.NewsSource)),
		FinnhubAPIKey:         viper.GetString(constants.FinnhubAPIKey),
		FinnhubBaseURL:        viper.GetString(constants.FinnhubAPIBaseURL),
		RSSURLTemplate:        viper.GetString(constants.RSSFeedURLTemplate),
		TwitterAuthToken:      viper.GetString(constants.TwitterAuthToken),
		TwitterCSRFToken:      viper.GetString(constants.TwitterCSRFToken),
		UserAgent:             viper.GetString(constants.UserAgent),
		FetchTimeout:          viper.GetDuration(constants.FetchTimeout),
		FetchLimit:            viper.GetInt(constants.FetchLimit),
		LookbackDays:          viper.GetInt(constants.FetchLookbackDays),
		FetchInterval:         time.Duration(viper.GetInt(constants.FetchIntervalSeconds)) * time.Second,
		FetchTimezone:         viper.GetString(constants.FetchTimezone),
		InitialFetch:          viper.GetBool(constants.InitialFetchOnStartup),
		EnrichEnabled:         viper.GetBool(constants.EnrichEnabled),
		EnrichTimeout:         viper.GetDuration(constants.EnrichTimeout),
		EnrichFailureTTL:      viper.GetDuration(constants.EnrichFailureTTL),
		BodyBackfillCronTab:   viper.GetString(constants.BodyBackfillCronTab),
		BodyBackfillLimit:     viper.GetInt(constants.BodyBackfillLimit),
		HealthCronTab:         viper.GetString(constants.HealthCronTab),
		WatchedSymbols:        symbols.Parse(viper.GetString(constants.WatchedSymbols)),
		WebSocketWriteTimeout: viper.GetDuration(constants.WebSocketWriteTimeout),
		TelegramBotToken:      viper.GetString(constants.TelegramBotToken),
		TelegramChatID:        viper.GetInt64(constants.TelegramChatID),
	}

	if cfg.DatabaseDriver == databases.DriverPostgres {
		cfg.DatabaseDSN = viper.GetString(constants.DatabaseURL)
	} else {
		cfg.DatabaseDSN = viper.GetString(constants.SqliteURL)
	}

	if hour := viper.GetInt(constants.FetchDailyHour); hour >= 0 {
		if hour > 23 {
			return Config{}, fmt.Errorf("%s must be within [0, 23], got %d", constants.FetchDailyHour, hour)
		}
		cfg.FetchDailyHour = &hour
	}

	if cfg.FetchLimit < 1 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", constants.FetchLimit, cfg.FetchLimit)
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
