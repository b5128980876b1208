package limiter

import (
	"fmt"
	"net/http"

	"github.com/m-zajac/repometrics/internal/app"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// limitedHTTPDoer wraps HTTPDoer and allows Dos with maximum rate limit.
type limitedHTTPDoer struct {
	doer    HTTPDoer
	limiter *rate.Limiter
	l       logrus.FieldLogger
}

// NewHTTPDoer creates rate limited HTTPDoer.
// maxRate is maximum number of Dos per second, burst is number of Dos allowed at once.
// Non-positive maxRate disables limiting.
func NewHTTPDoer(doer HTTPDoer, maxRate float64, burst int, l logrus.FieldLogger) HTTPDoer {
	limit := rate.Limit(maxRate)
	if maxRate <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	return &limitedHTTPDoer{
		doer:    doer,
		limiter: rate.NewLimiter(limit, burst),
		l:       l.WithField("component", "limiter"),
	}
}

// Do executes http request. If limit is exceeded, blocks until call rate is within limit
// or request context is done.
func (d *limitedHTTPDoer) Do(r *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(r.Context()); err != nil {
		d.l.Warnf("request to %s not allowed: %v", r.URL, err)
		return nil, app.TooManyRequestsError(fmt.Sprintf("waiting for http limiter: %v", err))
	}

	return d.doer.Do(r)
}
