package http

import (
	"context"
	"net/http"
	"time"

	"github.com/m-zajac/repometrics/internal/app"
	"github.com/sirupsen/logrus"
)

// Service returns stored reports and live repository details.
//go:generate mockgen -destination mock/service.go -package mock github.com/m-zajac/repometrics/internal/api/http Service
type Service interface {
	LatestReport(ctx context.Context) (string, error)
	RepositoryDetails(ctx context.Context, owner string, repo string) (app.RepositorySummary, error)
}

// NewMux creates router for app's http server.
func NewMux(service Service, timeout time.Duration, l logrus.FieldLogger) *http.ServeMux {
	timeoutMiddleware := NewTimeoutMiddleware(timeout)

	reportHandler := timeoutMiddleware(NewReportHandler(service, l))
	repositoryHandler := timeoutMiddleware(NewRepositoryHandler(
		func(r *http.Request) (string, string) {
			return r.PathValue("owner"), r.PathValue("repo")
		},
		service,
		l,
	))

	m := http.NewServeMux()
	m.HandleFunc("GET /report", reportHandler)
	m.HandleFunc("GET /repos/{owner}/{repo}", repositoryHandler)

	return m
}
