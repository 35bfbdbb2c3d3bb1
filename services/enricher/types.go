package enricher

import (
	"context"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// Enricher extracts the readable body of an article. It never fails loudly:
// any problem is reported as ok == false.
type Enricher interface {
	Fetch(ctx context.Context, url string) (body string, ok bool)
}

type Config struct {
	Enabled    bool
	Timeout    time.Duration
	FailureTTL time.Duration
	UserAgent  string
}

type Readability struct {
	enabled   bool
	timeout   time.Duration
	userAgent string
	client    *http.Client
	failures  *cache.Cache
}
