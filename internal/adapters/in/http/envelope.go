package http

import (
	"errors"
	"net/http"

	"orderreview/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func okList[T any](c echo.Context, message string, items []T) error {
	count := len(items)
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: items, Count: &count})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

// failWithDetail is for client errors; the detail names what was wrong with the input.
func failWithDetail(c echo.Context, status int, message string, detail error) error {
	env := Envelope{Success: false, Message: message}
	if detail != nil {
		env.Error = detail.Error()
	}
	return c.JSON(status, env)
}

// requestError is a rejection decided by the transport before any use case runs.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func writeRequestError(c echo.Context, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return fail(c, reqErr.status, reqErr.message)
	}
	return fail(c, http.StatusBadRequest, err.Error())
}

// messages are the user facing texts of one endpoint.
type messages struct {
	notFound   string
	invalid    string
	transition string
	processed  string
	internal   string
}

var errorStatus = []struct {
	target error
	status int
}{
	{errs.ErrObjectNotFound, http.StatusNotFound},
	{errs.ErrTransitionIsInvalid, http.StatusBadRequest},
	{errs.ErrValueIsRequired, http.StatusBadRequest},
	{errs.ErrValueIsInvalid, http.StatusBadRequest},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest},
}

// respondError maps a use case error to a response. Already processed is not
// a failure; callers handle it before getting here. Anything unrecognised is a
// 500 without internals.
func (s *Server) respondError(c echo.Context, err error, m messages) error {
	for _, e := range errorStatus {
		if !errors.Is(err, e.target) {
			continue
		}
		switch e.target {
		case errs.ErrObjectNotFound:
			return fail(c, e.status, m.notFound)
		case errs.ErrTransitionIsInvalid:
			return failWithDetail(c, e.status, m.transition, err)
		default:
			return failWithDetail(c, e.status, m.invalid, err)
		}
	}

	s.log.Error(m.internal, requestFields(c, err)...)
	return fail(c, http.StatusInternalServerError, m.internal)
}
