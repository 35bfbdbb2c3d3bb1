package enricher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Apple beats estimates</title></head>
<body>
<nav>Home | Markets</nav>
<article>
<h1>Apple beats estimates</h1>
<p>Apple reported quarterly revenue above analyst expectations, driven by strong services growth and a rebound in iPhone sales across several regions.</p>
<p>Shares rose in after-hours trading as investors weighed the company's guidance for the coming quarter and its continued buyback program.</p>
<p>Analysts said the results showed resilience in premium hardware demand, while margins in the services segment continued to expand thanks to subscriptions, advertising and payments revenue that now make up a growing share of profit.</p>
</article>
</body></html>`

func newTestEnricher() *Readability {
	return New(Config{Enabled: true, Timeout: time.Second, FailureTTL: time.Minute, UserAgent: "test"})
}

func TestFetchExtractsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articlePage)
	}))
	defer server.Close()

	body, ok := newTestEnricher().Fetch(context.Background(), server.URL+"/apple")
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	if !strings.Contains(body, "quarterly revenue") {
		t.Errorf("expected article text, got %q", body)
	}
}

func TestFetchFailureIsCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	service := newTestEnricher()
	for i := 0; i < 3; i++ {
		if _, ok := service.Fetch(context.Background(), server.URL+"/blocked"); ok {
			t.Fatalf("expected extraction to fail")
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single upstream call, got %d", calls.Load())
	}
}

func TestFetchDisabledOrEmpty(t *testing.T) {
	disabled := New(Config{Enabled: false, Timeout: time.Second, FailureTTL: time.Minute})
	if _, ok := disabled.Fetch(context.Background(), "https://example.com"); ok {
		t.Errorf("expected disabled enricher to return ok=false")
	}
	if _, ok := newTestEnricher().Fetch(context.Background(), ""); ok {
		t.Errorf("expected empty URL to return ok=false")
	}
}

func TestFetchHonorsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	service := New(Config{Enabled: true, Timeout: 50 * time.Millisecond, FailureTTL: time.Minute})
	start := time.Now()
	if _, ok := service.Fetch(context.Background(), server.URL); ok {
		t.Fatalf("expected timeout to fail extraction")
	}
	if time.Since(start) > time.Second {
		t.Errorf("expected fetch to stop at the timeout")
	}
}
