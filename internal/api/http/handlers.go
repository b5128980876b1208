package http

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-zajac/repometrics/internal/app"
	"github.com/sirupsen/logrus"
)

type repositoryResponse struct {
	Owner   string                `json:"owner"`
	Repo    string                `json:"repo"`
	Summary app.RepositorySummary `json:"summary"`
}

// NewReportHandler creates handlerfunc returning latest materialized report as markdown.
func NewReportHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := service.LatestReport(r.Context())
		if err != nil {
			if app.IsAssetNotFoundError(err) {
				http.Error(w, "report not materialized yet", http.StatusNotFound)
				return
			}

			l.Errorf("getting latest report: %v", err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report))
	}
}

// NewRepositoryHandler creates handlerfunc returning live repository summary.
func NewRepositoryHandler(
	getRepository func(*http.Request) (owner string, repo string),
	service Service,
	l logrus.FieldLogger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, repo := getRepository(r)

		summary, err := service.RepositoryDetails(r.Context(), owner, repo)
		if err != nil {
			switch status, _ := app.HTTPStatus(err); {
			case app.IsInvalidRequestError(err):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case app.IsTooManyRequestsError(err):
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			case status == http.StatusNotFound:
				http.Error(w, "repository not found", http.StatusNotFound)
			default:
				l.Errorf("getting repository %s/%s details: %v", owner, repo, err)
				http.Error(w, "", http.StatusInternalServerError)
			}
			return
		}

		response := repositoryResponse{
			Owner:   owner,
			Repo:    repo,
			Summary: summary,
		}

		w.Header().Set("Content-type", "application/json; charset=utf-8")
		_ = jsoniter.ConfigFastest.NewEncoder(w).Encode(response)
	}
}
