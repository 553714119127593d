// Package handlers implements the HTTP endpoints of the API and the
// rendered site.
package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/middleware"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/query"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/utils"
)

// data is the "data" object of the success envelope.
type data map[string]any

func currentUser(r *http.Request) (*models.User, error) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthenticated(middleware.MsgNotLoggedIn)
	}
	return u, nil
}

// baseURL is the scheme and host the client used to reach us.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// listSpec builds the client query of a list endpoint.
func listSpec(params url.Values) query.Spec {
	return query.New(params).Filter().Sort().LimitFields().Paginate()
}

// writeProjected answers a list endpoint, applying the spec's projection to
// the encoded records.
func writeProjected(w http.ResponseWriter, log *zap.Logger, spec query.Spec, n int, records any) {
	rendered, err := spec.Projection().Render(records)
	if err != nil {
		utils.WriteError(w, log, err)
		return
	}
	utils.WriteList(w, n, data{"data": rendered})
}

func pathID(r *http.Request, name string) string {
	return strings.TrimSpace(mux.Vars(r)[name])
}
