// Command stock-news polls news for a watchlist of ticker symbols and pushes
// every new article to websocket subscribers of that symbol.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stock-news/application"
	"stock-news/models/constants"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	initConfig()
	initLog()
}

// initLog runs after initConfig so LOG_LEVEL from .env is honored.
func initLog() {
	zerolog.SetGlobalLevel(constants.LogLevelFallback)

	rawLevel := viper.GetString(constants.LogLevel)
	logLevel, err := zerolog.ParseLevel(rawLevel)
	if err != nil || logLevel == zerolog.NoLevel {
		log.Warn().Err(err).Msgf("Unknown log level '%s', using %s", rawLevel, constants.LogLevelFallback)
		return
	}
	zerolog.SetGlobalLevel(logLevel)
	log.Debug().Msgf("Logger level set to '%s'", logLevel)
}

func initConfig() {
	viper.SetConfigFile(constants.ConfigFileName)
	for configName, defaultValue := range constants.GetDefaultConfigValues() {
		viper.SetDefault(configName, defaultValue)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Debug().Str(constants.LogFileName, constants.ConfigFileName).
			Msgf("No config file, using defaults and environment")
	}
	viper.AutomaticEnv()
}

func main() {
	cfg, err := application.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msgf("Invalid configuration")
	}

	app, err := application.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msgf("Cannot build %s", constants.ExternalName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if errRun := app.Run(); errRun != nil {
		app.Shutdown()
		log.Fatal().Err(errRun).Msgf("Cannot run %s", constants.ExternalName)
	}
	log.Info().
		Str(constants.LogFeedType, cfg.NewsSource).
		Msgf("%s v%s is running, CTRL-C to stop", constants.ExternalName, constants.Version)

	<-ctx.Done()
	stop()

	log.Info().Msgf("Stopping %s...", constants.ExternalName)
	app.Shutdown()
}
