package injections

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/injections", func(ir chi.Router) {
		ir.Post("/", createInjectionHandler(svc))
		ir.Get("/", listInjectionsHandler(svc))
		ir.Get("/{injectionID}", getInjectionHandler(svc))
		ir.Delete("/{injectionID}", deleteInjectionHandler(svc))
	})
}

type createInjectionRequest struct {
	Drug          string `json:"drug"`
	Dosage        string `json:"dosage"`
	InjectionSite string `json:"injection_site"`
	Notes         string `json:"notes"`
	InjectedAt    string `json:"injected_at"` // RFC3339; vacío = ahora
}

type injectionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Drug          string    `json:"drug"`
	Dosage        string    `json:"dosage"`
	InjectionSite string    `json:"injection_site,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	InjectedAt    time.Time `json:"injected_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// createInjectionHandler godoc
// @Summary Registrar inyección
// @Description Registra una dosis aplicada. injected_at en RFC3339; si se omite, se usa el momento actual.
// @Tags injections
// @Accept json
// @Produce json
// @Param payload body createInjectionRequest true "Datos de la inyección"
// @Success 201 {object} injectionResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /injections [post]
func createInjectionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createInjectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var at time.Time
		if strings.TrimSpace(req.InjectedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.InjectedAt)
			if err != nil {
				http.Error(w, "injected_at must be RFC3339", http.StatusBadRequest)
				return
			}
			at = t
		}

		l, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Drug:          req.Drug,
			Dosage:        req.Dosage,
			InjectionSite: req.InjectionSite,
			Notes:         req.Notes,
			InjectedAt:    at,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toInjectionResponse(l))
	}
}

func listInjectionsHandler(svc *Service) http.HandlerFunc {
	// Filtros por query: drug, from, to (YYYY-MM-DD), limit
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		filter := ListFilter{Drug: strings.TrimSpace(q.Get("drug"))}

		if v := strings.TrimSpace(q.Get("from")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			filter.From = &t
		}
		if v := strings.TrimSpace(q.Get("to")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			// "to" inclusivo hasta fin de día
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
		// Default y tope del endpoint; los repos no truncan por su cuenta.
		filter.Limit = 100
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}
		if filter.Limit > 500 {
			filter.Limit = 500
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]injectionResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toInjectionResponse(l))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getInjectionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		l, err := svc.GetByID(r.Context(), chi.URLParam(r, "injectionID"))
		if err != nil || l.UserID != claims.UserID {
			http.Error(w, "injection not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toInjectionResponse(l))
	}
}

func deleteInjectionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "injectionID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "injection not found", http.StatusNotFound)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toInjectionResponse(l Log) injectionResponse {
	return injectionResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		Drug:          l.Drug,
		Dosage:        l.Dosage,
		InjectionSite: l.InjectionSite,
		Notes:         l.Notes,
		InjectedAt:    l.InjectedAt,
		CreatedAt:     l.CreatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo;
// si se repite en más lugares recién ahí conviene extraer un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
