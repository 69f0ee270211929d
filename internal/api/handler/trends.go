package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pitchside/trendlens/internal/api/respond"
	"github.com/pitchside/trendlens/internal/cache"
	"github.com/pitchside/trendlens/internal/trend"
)

const maxQueryBodyBytes = 1 << 20

// QueryTrends validates and executes a trend query.
// @Summary Run a trend query
// @Description Validates the Trend DSL document, executes it against stored match statistics, and returns KPIs, rates, a capped match list, and data-quality annotations. Responses are cached under the query's canonical cache key.
// @Tags trends
// @Accept json
// @Produce json
// @Param query body trend.RawQuery true "Trend DSL document"
// @Success 200 {object} trend.TrendResult
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Failure 504 {object} respond.ErrorResponse
// @Router /trends/query [post]
func (h *Handler) QueryTrends(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQueryBodyBytes))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, trend.CodeValidation, "Unreadable request body")
		return
	}

	q, err := trend.ParseAndValidate(body)
	if err != nil {
		var verrs *trend.ValidationErrors
		if errors.As(err, &verrs) {
			respond.WriteErrorDetails(w, http.StatusBadRequest, trend.CodeValidation,
				"Query failed validation", verrs.Violations)
			return
		}
		respond.WriteError(w, http.StatusBadRequest, trend.CodeValidation, err.Error())
		return
	}

	key := trend.CacheKey(*q)
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, h.cfg.CacheTTL, true)
		return
	}

	result, err := h.engine.Run(r.Context(), *q)
	if err != nil {
		var dse *trend.DataSourceError
		if errors.As(err, &dse) {
			status := http.StatusBadGateway
			if dse.Timeout {
				status = http.StatusGatewayTimeout
			}
			respond.WriteError(w, status, trend.CodeDataSource, dse.Error())
			return
		}
		respond.WriteError(w, http.StatusInternalServerError, "InternalError", err.Error())
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "InternalError", "Encode result")
		return
	}
	etag := h.cache.Set(key, data, h.cfg.CacheTTL)
	respond.WriteJSON(w, data, etag, h.cfg.CacheTTL, false)
}

// GetTrendFields lists the filterable fields of the Trend DSL.
// @Summary Filterable field metadata
// @Description Returns the closed enumeration of filterable fields with their expected value types.
// @Tags trends
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /trends/fields [get]
func (h *Handler) GetTrendFields(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"fields": trend.Fields(),
	})
}

// GetTrendOutcomes lists the requestable outcome rates.
// @Summary Outcome metadata
// @Description Returns the allow-list of requestable outcomes and whether each is computed per team row or per match.
// @Tags trends
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /trends/outcomes [get]
func (h *Handler) GetTrendOutcomes(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"outcomes": trend.Outcomes(),
	})
}
