package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fintools/proceeds/pkg/adapters"
	"github.com/fintools/proceeds/pkg/models/api"
	"github.com/fintools/proceeds/pkg/models/domain"
	"github.com/fintools/proceeds/pkg/services/fiscal"
	"github.com/fintools/proceeds/pkg/store/client"
)

const defaultPeriodCount = 12

// Service is the slice of the pipeline controller the handler needs.
type Service interface {
	GetReport(ctx context.Context, month domain.CalendarMonth, now time.Time) (*domain.ProceedsReport, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListPeriods returns the n most recent selectable periods, newest first.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	n := defaultPeriodCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", "n must be a positive integer")
			return
		}
		n = parsed
	}

	var response []api.Period
	for _, month := range fiscal.RecentPeriods(time.Now(), n) {
		response = append(response, adapters.MapPeriodDomainToApi(month))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode periods")
	}
}

// GetReport runs the pipeline for the fiscal period in the path.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	periodID := chi.URLParam(r, "period")

	month, err := parsePeriodID(periodID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	result, err := h.service.GetReport(ctx, month, time.Now())
	if errors.Is(err, client.ErrReportNotFound) {
		writeError(w, http.StatusNotFound, "report_not_found",
			fmt.Sprintf("no report available for %s yet, try an earlier period", periodID))
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("period", periodID).Msg("report pipeline failed")
		writeError(w, http.StatusBadGateway, "fetch_failed", "failed to fetch report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapReportDomainToApi(result)); err != nil {
		logger.Error().Err(err).Str("period", periodID).Msg("failed to encode report")
	}
}

func parsePeriodID(periodID string) (domain.CalendarMonth, error) {
	var fiscalYear, fiscalMonth int
	if _, err := fmt.Sscanf(periodID, "%d-%d", &fiscalYear, &fiscalMonth); err != nil ||
		fiscalMonth < 1 || fiscalMonth > 12 {
		return domain.CalendarMonth{}, fmt.Errorf("period must look like 2026-01, got %q", periodID)
	}

	year, month := fiscal.FromFiscal(fiscalYear, fiscalMonth)
	return fiscal.Month(year, month), nil
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Code: code, Message: message})
}
