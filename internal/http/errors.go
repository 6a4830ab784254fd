package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
)

// handleError renders err as an ErrorResponse. Validation errors map to 400,
// stale conversation state to 409.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorBody(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Warn(c.Request().Context(), "failed to write error response", zap.Error(err))
	}
}

func (s *Server) errorBody(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, diagnosis.ErrStaleState):
		return http.StatusConflict, ErrorResponse{Error: ErrorCodeConflict, Message: err.Error()}
	case errors.Is(err, diagnosis.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: ErrorCodeInvalidRequest, Message: err.Error()}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, ErrorResponse{Error: codeForStatus(he.Code), Message: msg}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   ErrorCodeInternalError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusMethodNotAllowed:
		return ErrorCodeInvalidRequest
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusRequestEntityTooLarge:
		return ErrorCodeTooLarge
	case http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	default:
		return ErrorCodeInternalError
	}
}
