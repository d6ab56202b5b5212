package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmasatrya/flightagent/internal/aggregator"
	"github.com/dharmasatrya/flightagent/internal/memory"
	"github.com/dharmasatrya/flightagent/internal/models"
	"github.com/dharmasatrya/flightagent/internal/parser"
	"github.com/dharmasatrya/flightagent/internal/region"
	"github.com/dharmasatrya/flightagent/internal/search"
	"github.com/dharmasatrya/flightagent/internal/summarizer"
)

type AgentHandler struct {
	resolver   *region.Resolver
	aggregator *aggregator.Aggregator
	memory     memory.Store
	summarizer summarizer.Summarizer
	log        *zap.Logger
}

func NewAgentHandler(resolver *region.Resolver, agg *aggregator.Aggregator, store memory.Store, sum summarizer.Summarizer, log *zap.Logger) *AgentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AgentHandler{
		resolver:   resolver,
		aggregator: agg,
		memory:     store,
		summarizer: sum,
		log:        log,
	}
}

// Query is the natural-language endpoint: free text in, ranked multi-region
// results plus a summary out.
func (h *AgentHandler) Query(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "empty_query",
			Message: "Query text cannot be empty",
			Code:    http.StatusBadRequest,
		})
	}

	parsed := parser.Parse(req.Query)
	h.applyDefaults(&parsed)

	if err := parsed.Validate(); err != nil {
		return h.errorResponse(c, err)
	}

	regions := h.resolver.Resolve(ctx, req.Device, req.IP)
	currencyOverride := parser.DetectCurrency(req.Query)

	result, err := h.aggregator.Search(ctx, parsed, regions, currencyOverride)
	if err != nil {
		return h.errorResponse(c, err)
	}

	flights := result.Flights
	if parsed.Limit > 0 && len(flights) > parsed.Limit {
		flights = flights[:parsed.Limit]
	}

	summary, err := h.summarizer.Summarize(ctx, parsed, regions, flights)
	if err != nil {
		h.log.Warn("summarization failed", zap.Error(err))
		summary = ""
	}

	sessionID := c.QueryParam("session_id")
	h.persistTurn(ctx, sessionID, req.Query, summary)

	return c.JSON(http.StatusOK, models.QueryResponse{
		Status:      "ok",
		ParsedQuery: parsed,
		Regions:     regions,
		Metadata:    buildMetadata(result, len(flights), startTime),
		Results:     flights,
		Summary:     summary,
		SessionID:   sessionID,
	})
}

// StructuredSearch bypasses the text parser: the caller posts a
// StructuredQuery directly and the same multi-region pipeline runs.
func (h *AgentHandler) StructuredSearch(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var query models.StructuredQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	h.applyDefaults(&query)

	if err := query.Validate(); err != nil {
		return h.errorResponse(c, err)
	}

	regions := h.resolver.Resolve(ctx, nil, c.RealIP())

	result, err := h.aggregator.Search(ctx, query, regions, "")
	if err != nil {
		return h.errorResponse(c, err)
	}

	flights := result.Flights
	if query.Limit > 0 && len(flights) > query.Limit {
		flights = flights[:query.Limit]
	}

	summary, err := h.summarizer.Summarize(ctx, query, regions, flights)
	if err != nil {
		h.log.Warn("summarization failed", zap.Error(err))
		summary = ""
	}

	sessionID := c.QueryParam("session_id")
	if sessionID != "" {
		if data, err := json.Marshal(query); err == nil {
			h.persistTurn(ctx, sessionID, string(data), summary)
		}
	}

	return c.JSON(http.StatusOK, models.QueryResponse{
		Status:      "ok",
		ParsedQuery: query,
		Regions:     regions,
		Metadata:    buildMetadata(result, len(flights), startTime),
		Results:     flights,
		Summary:     summary,
		SessionID:   sessionID,
	})
}

func (h *AgentHandler) History(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing_session",
			Message: "session_id query parameter is required",
			Code:    http.StatusBadRequest,
		})
	}

	messages, err := h.memory.History(c.Request().Context(), sessionID)
	if err != nil {
		h.log.Error("history read failed", zap.String("session_id", sessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "memory_error",
			Message: "Failed to load session history",
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session_id": sessionID,
		"history":    messages,
	})
}

func (h *AgentHandler) ClearHistory(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing_session",
			Message: "session_id query parameter is required",
			Code:    http.StatusBadRequest,
		})
	}

	if err := h.memory.Clear(c.Request().Context(), sessionID); err != nil {
		h.log.Error("history clear failed", zap.String("session_id", sessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "memory_error",
			Message: "Failed to clear session history",
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *AgentHandler) applyDefaults(q *models.StructuredQuery) {
	if rejected := q.ApplyDefaults(); rejected != "" {
		h.log.Warn("unrecognized intent, defaulting to cheapest",
			zap.String("intent", rejected))
	}
}

// persistTurn writes one user/assistant exchange into session memory.
// Memory failures are logged and swallowed; persistence must never fail a
// request that already produced results.
func (h *AgentHandler) persistTurn(ctx context.Context, sessionID, userText, assistantText string) {
	if sessionID == "" {
		return
	}
	if err := h.memory.Append(ctx, sessionID, memory.Message{Role: "user", Content: userText}); err != nil {
		h.log.Warn("failed to persist user message", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	if assistantText == "" {
		return
	}
	if err := h.memory.Append(ctx, sessionID, memory.Message{Role: "assistant", Content: assistantText}); err != nil {
		h.log.Warn("failed to persist assistant message", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func buildMetadata(result *aggregator.Result, totalResults int, startTime time.Time) models.SearchMetadata {
	return models.SearchMetadata{
		TotalResults:     totalResults,
		RegionsQueried:   result.RegionsQueried,
		RegionsSucceeded: result.RegionsSucceeded,
		RegionsFailed:    result.RegionsFailed,
		FailedRegions:    result.FailedRegions,
		SearchTimeMs:     time.Since(startTime).Milliseconds(),
	}
}

// errorResponse maps pipeline error kinds onto transport responses.
func (h *AgentHandler) errorResponse(c echo.Context, err error) error {
	var validationErr models.ValidationError
	var statusErr *search.StatusError
	var unexpectedErr *search.UnexpectedError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_query",
			Message: validationErr.Error(),
			Code:    http.StatusBadRequest,
		})
	case errors.As(err, &statusErr):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "remote_error",
			Message: statusErr.Error(),
			Code:    http.StatusBadGateway,
		})
	case errors.Is(err, search.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "remote_unavailable",
			Message: err.Error(),
			Code:    http.StatusServiceUnavailable,
		})
	case errors.As(err, &unexpectedErr):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "remote_unexpected",
			Message: unexpectedErr.Error(),
			Code:    http.StatusBadGateway,
		})
	}

	h.log.Error("unhandled pipeline error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
		Code:    http.StatusInternalServerError,
	})
}
