package application

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"stock-news/models/entities"
	"stock-news/services/feeds"
)

func newTestConfig(t *testing.T) Config {
	t.Helper()
	setDefaults(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	cfg.HTTPPort = 0
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.NewsSource = feeds.KindMock
	cfg.EnrichEnabled = false
	cfg.FetchDailyHour = nil
	cfg.InitialFetch = true
	return cfg
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("invalid JSON from %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestApplicationRunAndShutdown(t *testing.T) {
	app, err := New(newTestConfig(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	defer app.Shutdown()

	baseURL := "http://" + app.Addr().String()

	var status map[string]any
	if code := getJSON(t, baseURL+"/api/health", &status); code != http.StatusOK || status["status"] != "ok" {
		t.Fatalf("unexpected health %d %v", code, status)
	}

	// The initial cycle stores five demo articles for each seeded symbol.
	deadline := time.Now().Add(5 * time.Second)
	var articles []entities.Article
	for time.Now().Before(deadline) {
		getJSON(t, baseURL+"/api/news", &articles)
		if len(articles) == 10 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if len(articles) != 10 {
		t.Fatalf("expected 10 articles after the initial cycle, got %d", len(articles))
	}

	var symbolArticles []entities.Article
	getJSON(t, baseURL+"/api/news?symbols=msft&limit=3", &symbolArticles)
	if len(symbolArticles) != 3 || symbolArticles[0].Symbol != "MSFT" {
		t.Errorf("unexpected filtered articles %+v", symbolArticles)
	}
}
