package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"stock-news/models/entities"
	"stock-news/utils/symbols"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewNewsController creates a new news controller
func NewNewsController(dispatcher NewsDispatcher, newsRepo NewsReader) *NewsController {
	return &NewsController{dispatcher: dispatcher, newsRepo: newsRepo}
}

// GetNews returns the latest stored articles
// GET /api/news?symbols=AAPL,MSFT&limit=50
func (nc *NewsController) GetNews(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNewsLimit)))
	if err != nil || limit < 1 || limit > maxNewsLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}

	articles, err := nc.newsRepo.FetchLatest(c.Request.Context(), symbols.Parse(c.Query("symbols")), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list news")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}

	c.JSON(http.StatusOK, nonNil(articles))
}

// RefreshNews runs one dispatch cycle and returns the created articles
// POST /api/news/refresh
func (nc *NewsController) RefreshNews(c *gin.Context) {
	var request refreshRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	articles, err := nc.dispatcher.BroadcastLatest(c.Request.Context(), request.Symbols)
	if err != nil {
		if articles == nil {
			log.Error().Err(err).Msg("Failed to refresh news")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh news"})
			return
		}
		log.Warn().Err(err).Msg("News refreshed with errors")
	}

	c.JSON(http.StatusOK, nonNil(articles))
}

// BackfillBody fills the body of stored articles that have none
// POST /api/news/backfill-body
func (nc *NewsController) BackfillBody(c *gin.Context) {
	var request backfillRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	limit := defaultBackfillLimit
	if request.Limit != nil {
		limit = *request.Limit
	}
	if limit < 1 || limit > maxBackfillLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}

	processed, updated, err := nc.dispatcher.BackfillBodies(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to backfill bodies")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to backfill article bodies"})
		return
	}

	c.JSON(http.StatusOK, backfillResponse{Processed: processed, Updated: updated})
}

func nonNil(articles []entities.Article) []entities.Article {
	if articles == nil {
		return []entities.Article{}
	}
	return articles
}
