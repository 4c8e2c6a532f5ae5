package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/cvhariharan/actordir/directory"
	"github.com/cvhariharan/actordir/webfinger"
)

// handleError renders every failure as a status code and a plain-text
// message.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.String(code, msg)
	}
	if err != nil {
		s.log.Warn("write error response", zap.Error(err))
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, directory.ErrInvalidInput),
		errors.Is(err, webfinger.ErrMissingResource),
		errors.Is(err, webfinger.ErrInvalidFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, directory.ErrUsernameTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, directory.ErrActorNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, webfinger.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.As(err, &he):
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
