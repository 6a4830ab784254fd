package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/faultdx/internal/troubleshoot"
)

const (
	indexMessage     = "API del motor de diagnóstico funcionando correctamente."
	legacyEmptyError = "Debe enviarse una descripción del problema."
)

// handleIndex returns the service banner.
func (s *Server) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, IndexResponse{Message: indexMessage})
}

// handleHealth reports the knowledge base in service.
func (s *Server) handleHealth(c echo.Context) error {
	k := s.svc.Knowledge()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:           "ok",
		KnowledgeVersion: k.Version,
		Faults:           k.Faults,
	})
}

// handleKnowledge describes the knowledge base in service.
func (s *Server) handleKnowledge(c echo.Context) error {
	kb := s.svc.Base()
	return c.JSON(http.StatusOK, KnowledgeResponse{
		Summary:        kb.Summary(),
		AttributeNames: kb.Attributes(),
		Strategies:     s.svc.Strategies(),
		Threshold:      s.svc.Threshold(),
	})
}

// handleStart begins a diagnosis conversation.
func (s *Server) handleStart(c echo.Context) error {
	var req DescriptionRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	step, err := s.svc.StartDiagnosis(c.Request().Context(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, step)
}

// handleContinue answers the pending question of a conversation.
func (s *Server) handleContinue(c echo.Context) error {
	var req ContinueRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	step, err := s.svc.ContinueDiagnosis(c.Request().Context(), req.State, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, step)
}

// handleMatch ranks faults by similarity to a description.
func (s *Server) handleMatch(c echo.Context) error {
	var req DescriptionRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	report, err := s.svc.RankBySimilarity(c.Request().Context(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// handleDiagnose dispatches a description to the requested strategy.
func (s *Server) handleDiagnose(c echo.Context) error {
	var req DescriptionRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Diagnose(c.Request().Context(), req.Strategy, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleLegacyDiagnosis keeps the one-shot endpoint and its error body.
func (s *Server) handleLegacyDiagnosis(c echo.Context) error {
	var req LegacyRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": legacyEmptyError})
	}
	res, err := s.svc.Diagnose(c.Request().Context(), troubleshoot.StrategySimilarity, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res.Report)
}

func (s *Server) bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		s.logger.Warn(c.Request().Context(), "invalid request body",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return nil
}
