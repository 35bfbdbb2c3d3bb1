package constants

import "github.com/rs/zerolog"

const (
	LogFileName      = "fileName"
	LogSymbol        = "symbol"
	LogSymbolNumber  = "symbolNumber"
	LogConnID        = "connID"
	LogClientNumber  = "clientNumber"
	LogArticleID     = "articleID"
	LogArticleNumber = "articleNumber"
	LogFeedURL       = "feedURL"
	LogFeedType      = "feedType"
	LogDuration      = "duration"
	LogNextRun       = "nextRun"
	LogChatID        = "chatID"
	LogLevelFallback = zerolog.InfoLevel
)
