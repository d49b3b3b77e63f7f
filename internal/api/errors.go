package api

import (
	"errors"
	"net/http"

	"github.com/jbweber/homelab/items/internal/service"
)

// ErrorMessage is the body of every failed response.
type ErrorMessage struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Details    string `json:"details"`
}

// requestError is a problem with the request itself (path or body), not the domain.
type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string {
	return e.msg
}

func (e *requestError) Unwrap() error {
	return e.err
}

// classify maps an error to the status and message sent to the client.
// Storage faults are reported generically; their text stays in the logs.
func classify(err error) (int, string) {
	var (
		notFound   *service.NotFoundError
		validation *service.ValidationError
		badRequest *requestError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, badRequest.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// writeError translates err into an ErrorMessage response.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)

	if status >= http.StatusInternalServerError {
		a.logger.Error().Err(err).Str("method", r.Method).Str("uri", r.URL.RequestURI()).Msg("request failed")
	} else {
		a.logger.Debug().Err(err).Int("status", status).Str("uri", r.URL.RequestURI()).Msg("request rejected")
	}

	writeJSON(w, a.logger, status, ErrorMessage{
		StatusCode: status,
		Message:    msg,
		Details:    requestDetails(r),
	})
}

// requestDetails describes the request as "uri=<path>".
func requestDetails(r *http.Request) string {
	return "uri=" + r.URL.Path
}
