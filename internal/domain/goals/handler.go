package goals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-tracker/internal/domain/weights"
	"health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, weightsSvc *weights.Service) {
	r.Route("/goals", func(gr chi.Router) {
		gr.Post("/", createGoalHandler(svc))
		gr.Get("/", listGoalsHandler(svc))
		gr.Get("/active", getActiveGoalHandler(svc, weightsSvc))
		gr.Post("/{goalID}/achieve", transitionGoalHandler(svc, StatusAchieved))
		gr.Post("/{goalID}/abandon", transitionGoalHandler(svc, StatusAbandoned))
	})
}

type createGoalRequest struct {
	StartWeightKg  float64 `json:"start_weight_kg"`
	TargetWeightKg float64 `json:"target_weight_kg"`
	TargetDate     string  `json:"target_date"` // YYYY-MM-DD opcional
}

type goalResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	StartWeightKg  float64   `json:"start_weight_kg"`
	TargetWeightKg float64   `json:"target_weight_kg"`
	TargetDate     *string   `json:"target_date,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type activeGoalResponse struct {
	Goal goalResponse `json:"goal"`
	// ProgressPercent viene del último peso registrado; null si el usuario
	// todavía no cargó ninguna medición.
	ProgressPercent *float64 `json:"progress_percent"`
	LatestWeightKg  *float64 `json:"latest_weight_kg"`
}

func createGoalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var td *time.Time
		if strings.TrimSpace(req.TargetDate) != "" {
			t, err := time.Parse("2006-01-02", req.TargetDate)
			if err != nil {
				http.Error(w, "target_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			td = &t
		}

		g, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			StartWeightKg:  req.StartWeightKg,
			TargetWeightKg: req.TargetWeightKg,
			TargetDate:     td,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toGoalResponse(g))
	}
}

func listGoalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]goalResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGoalResponse(g))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getActiveGoalHandler(svc *Service, weightsSvc *weights.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.GetActive(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "no active goal", http.StatusNotFound)
			return
		}

		resp := activeGoalResponse{Goal: toGoalResponse(g)}

		latest, err := weightsSvc.Latest(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if latest != nil {
			p := Progress(g, latest.WeightKg)
			resp.ProgressPercent = &p
			resp.LatestWeightKg = &latest.WeightKg
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func transitionGoalHandler(svc *Service, to Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			g   Goal
			err error
		)
		switch to {
		case StatusAchieved:
			g, err = svc.Achieve(r.Context(), chi.URLParam(r, "goalID"), claims.UserID)
		default:
			g, err = svc.Abandon(r.Context(), chi.URLParam(r, "goalID"), claims.UserID)
		}

		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrBadState):
				http.Error(w, "goal is not active", http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "goal not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toGoalResponse(g))
	}
}

func toGoalResponse(g Goal) goalResponse {
	out := goalResponse{
		ID:             g.ID,
		UserID:         g.UserID,
		StartWeightKg:  g.StartWeightKg,
		TargetWeightKg: g.TargetWeightKg,
		Status:         g.Status,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
	if g.TargetDate != nil {
		s := g.TargetDate.Format("2006-01-02")
		out.TargetDate = &s
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
