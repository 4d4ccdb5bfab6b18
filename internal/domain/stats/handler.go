package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"health-tracker/internal/domain/schedules"
	"health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/stats/summary", summaryHandler(svc))
}

type weightTrendResponse struct {
	Entries int       `json:"entries"`
	FirstKg float64   `json:"first_kg"`
	LastKg  float64   `json:"last_kg"`
	DeltaKg float64   `json:"delta_kg"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
}

type phaseBadgeResponse struct {
	Order  int                   `json:"order"`
	Dosage string                `json:"dosage"`
	Status schedules.PhaseStatus `json:"status"`
}

type adherenceResponse struct {
	ScheduleID        string               `json:"schedule_id"`
	Drug              string               `json:"drug"`
	TotalCompleted    int                  `json:"total_completed"`
	TotalExpected     *int                 `json:"total_expected"`
	CurrentPhaseOrder *int                 `json:"current_phase_order"`
	PhaseBadges       []phaseBadgeResponse `json:"phase_badges"`
}

type summaryResponse struct {
	WindowDays int                  `json:"window_days"`
	Weight     *weightTrendResponse `json:"weight"`
	Adherence  *adherenceResponse   `json:"adherence"`
}

// summaryHandler godoc
// @Summary Resumen del dashboard
// @Description Tendencia de peso en la ventana pedida (query window_days, default 30) y adherencia al schedule activo. Ambos bloques pueden ser null.
// @Tags stats
// @Produce json
// @Param window_days query int false "Ventana en días (default 30)"
// @Success 200 {object} summaryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /stats/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		windowDays := 0
		if v := strings.TrimSpace(r.URL.Query().Get("window_days")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "window_days must be a positive integer", http.StatusBadRequest)
				return
			}
			windowDays = n
		}

		sum, err := svc.Summary(r.Context(), claims.UserID, windowDays)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toSummaryResponse(sum))
	}
}

func toSummaryResponse(s Summary) summaryResponse {
	out := summaryResponse{WindowDays: s.WindowDays}

	if s.Weight != nil {
		out.Weight = &weightTrendResponse{
			Entries: s.Weight.Entries,
			FirstKg: s.Weight.FirstKg,
			LastKg:  s.Weight.LastKg,
			DeltaKg: s.Weight.DeltaKg,
			From:    s.Weight.From,
			To:      s.Weight.To,
		}
	}

	if s.Adherence != nil {
		badges := make([]phaseBadgeResponse, 0, len(s.Adherence.PhaseBadges))
		for _, b := range s.Adherence.PhaseBadges {
			badges = append(badges, phaseBadgeResponse{
				Order:  b.Order,
				Dosage: b.Dosage,
				Status: b.Status,
			})
		}
		out.Adherence = &adherenceResponse{
			ScheduleID:        s.Adherence.ScheduleID,
			Drug:              s.Adherence.Drug,
			TotalCompleted:    s.Adherence.TotalCompleted,
			TotalExpected:     s.Adherence.TotalExpected,
			CurrentPhaseOrder: s.Adherence.CurrentPhaseOrder,
			PhaseBadges:       badges,
		}
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
