package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Post("/", createItemHandler(svc))
		ir.Get("/", listItemsHandler(svc))
		ir.Post("/{itemID}/use", useDoseHandler(svc))
		ir.Patch("/{itemID}", adjustItemHandler(svc))
		ir.Delete("/{itemID}", deleteItemHandler(svc))
	})
}

type createItemRequest struct {
	Drug       string `json:"drug"`
	Label      string `json:"label"`
	TotalDoses int    `json:"total_doses"`
	AcquiredAt string `json:"acquired_at"` // YYYY-MM-DD opcional
	ExpiresAt  string `json:"expires_at"`  // YYYY-MM-DD opcional
}

type adjustItemRequest struct {
	Label      *string `json:"label"`
	TotalDoses *int    `json:"total_doses"`
	UsedDoses  *int    `json:"used_doses"`
	ExpiresAt  *string `json:"expires_at"` // YYYY-MM-DD
}

type itemResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Drug           string    `json:"drug"`
	Label          string    `json:"label,omitempty"`
	TotalDoses     int       `json:"total_doses"`
	UsedDoses      int       `json:"used_doses"`
	RemainingDoses int       `json:"remaining_doses"`
	AcquiredAt     time.Time `json:"acquired_at"`
	ExpiresAt      *string   `json:"expires_at,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			Drug:       req.Drug,
			Label:      req.Label,
			TotalDoses: req.TotalDoses,
		}

		if strings.TrimSpace(req.AcquiredAt) != "" {
			t, err := time.Parse("2006-01-02", req.AcquiredAt)
			if err != nil {
				http.Error(w, "acquired_at must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.AcquiredAt = t
		}
		if strings.TrimSpace(req.ExpiresAt) != "" {
			t, err := time.Parse("2006-01-02", req.ExpiresAt)
			if err != nil {
				http.Error(w, "expires_at must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.ExpiresAt = &t
		}

		i, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeInventoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(i))
	}
}

func listItemsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]itemResponse, 0, len(items))
		for _, i := range items {
			out = append(out, toItemResponse(i))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func useDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		i, err := svc.UseDose(r.Context(), chi.URLParam(r, "itemID"), claims.UserID)
		if err != nil {
			writeInventoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(i))
	}
}

func adjustItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req adjustItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := AdjustInput{
			Label:      req.Label,
			TotalDoses: req.TotalDoses,
			UsedDoses:  req.UsedDoses,
		}
		if req.ExpiresAt != nil {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(*req.ExpiresAt))
			if err != nil {
				http.Error(w, "expires_at must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.ExpiresAt = &t
		}

		i, err := svc.Adjust(r.Context(), chi.URLParam(r, "itemID"), claims.UserID, in)
		if err != nil {
			writeInventoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(i))
	}
}

func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "itemID"), claims.UserID); err != nil {
			writeInventoryError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeInventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrDepleted):
		http.Error(w, "no doses remaining", http.StatusConflict)
	case errors.Is(err, ErrLimitReached):
		http.Error(w, "plan limit reached", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "inventory item not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toItemResponse(i Item) itemResponse {
	out := itemResponse{
		ID:             i.ID,
		UserID:         i.UserID,
		Drug:           i.Drug,
		Label:          i.Label,
		TotalDoses:     i.TotalDoses,
		UsedDoses:      i.UsedDoses,
		RemainingDoses: i.RemainingDoses(),
		AcquiredAt:     i.AcquiredAt,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
	if i.ExpiresAt != nil {
		s := i.ExpiresAt.Format("2006-01-02")
		out.ExpiresAt = &s
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
