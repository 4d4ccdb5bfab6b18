package schedules

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"health-tracker/internal/domain/injections"
	"health-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, injSvc *injections.Service) {
	r.Route("/schedules", func(sr chi.Router) {
		sr.Post("/", createScheduleHandler(svc))
		sr.Get("/", listSchedulesHandler(svc))

		// Próxima dosis sugerida según el schedule activo.
		sr.Get("/next-dose", nextDoseHandler(svc, injSvc))

		sr.Get("/{scheduleID}", getScheduleHandler(svc))
		sr.Patch("/{scheduleID}", updateScheduleHandler(svc))
		sr.Delete("/{scheduleID}", deleteScheduleHandler(svc))

		sr.Post("/{scheduleID}/activate", activateScheduleHandler(svc))
		sr.Post("/{scheduleID}/deactivate", deactivateScheduleHandler(svc))

		// Vista completa: fases proyectadas + inyecciones asignadas + totales.
		sr.Get("/{scheduleID}/view", scheduleViewHandler(svc, injSvc))
	})
}

type phaseRequest struct {
	Order        int    `json:"order"`
	DurationDays *int   `json:"duration_days"` // null = indefinida (solo la última)
	Dosage       string `json:"dosage"`
}

type createScheduleRequest struct {
	Drug      string         `json:"drug"`
	StartDate string         `json:"start_date"` // YYYY-MM-DD
	Frequency Frequency      `json:"frequency" enums:"daily,every_3_days,weekly,every_2_weeks,monthly"`
	Phases    []phaseRequest `json:"phases"`
	Activate  bool           `json:"activate"`
}

type updateScheduleRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Drug      *string    `json:"drug"`
	StartDate *string    `json:"start_date"` // YYYY-MM-DD
	Frequency *Frequency `json:"frequency"`
	// Si viene, reemplaza todas las fases.
	Phases []phaseRequest `json:"phases"`
}

type phaseResponse struct {
	ID           string `json:"id"`
	Order        int    `json:"order"`
	DurationDays *int   `json:"duration_days"`
	Dosage       string `json:"dosage"`
}

type scheduleResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Drug      string          `json:"drug"`
	StartDate string          `json:"start_date"`
	Frequency Frequency       `json:"frequency"`
	IsActive  bool            `json:"is_active"`
	Phases    []phaseResponse `json:"phases"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type assignedInjectionResponse struct {
	ID            string    `json:"id"`
	Dosage        string    `json:"dosage"`
	InjectionSite string    `json:"injection_site,omitempty"`
	InjectedAt    time.Time `json:"injected_at"`
}

type phaseViewResponse struct {
	Order          int                         `json:"order"`
	Dosage         string                      `json:"dosage"`
	StartDate      string                      `json:"start_date"`
	EndDate        *string                     `json:"end_date"` // null = indefinida
	Status         PhaseStatus                 `json:"status"`
	ExpectedCount  *int                        `json:"expected_count"`
	CompletedCount int                         `json:"completed_count"`
	Injections     []assignedInjectionResponse `json:"injections"`
}

type scheduleViewResponse struct {
	Schedule       scheduleResponse    `json:"schedule"`
	Phases         []phaseViewResponse `json:"phases"`
	CurrentPhase   *phaseViewResponse  `json:"current_phase"`
	TotalCompleted int                 `json:"total_completed"`
	TotalExpected  *int                `json:"total_expected"`
}

type nextDoseResponse struct {
	SuggestedDate time.Time          `json:"suggested_date"`
	IsOverdue     bool               `json:"is_overdue"`
	DaysUntilDue  int                `json:"days_until_due"`
	CurrentPhase  *phaseViewResponse `json:"current_phase"`
}

// "Sin dosis que sugerir" es un resultado válido: next_dose null.
type nextDoseEnvelope struct {
	NextDose *nextDoseResponse `json:"next_dose"`
}

// createScheduleHandler godoc
// @Summary Crear schedule de titulación
// @Description Crea un plan de titulación: fases ordenadas (solo la última puede ser indefinida) + cadencia. Con activate=true se activa y desactiva cualquier otro schedule del usuario.
// @Tags schedules
// @Accept json
// @Produce json
// @Param payload body createScheduleRequest true "Datos del schedule; start_date en YYYY-MM-DD"
// @Success 201 {object} scheduleResponse
// @Failure 400 {string} string "invalid json / fases inválidas"
// @Failure 401 {string} string "unauthorized"
// @Router /schedules [post]
func createScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		sch, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Drug:      req.Drug,
			StartDate: start,
			Frequency: req.Frequency,
			Phases:    toPhaseInputs(req.Phases),
			Activate:  req.Activate,
		})
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toScheduleResponse(sch))
	}
}

func listSchedulesHandler(svc *Service) http.HandlerFunc {
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

		out := make([]scheduleResponse, 0, len(items))
		for _, sch := range items {
			out = append(out, toScheduleResponse(sch))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sch, err := svc.GetByID(r.Context(), chi.URLParam(r, "scheduleID"))
		if err != nil || sch.UserID != claims.UserID {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(sch))
	}
}

func updateScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateScheduleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{Drug: req.Drug, Frequency: req.Frequency}
		if req.StartDate != nil {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(*req.StartDate))
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &t
		}
		if req.Phases != nil {
			in.Phases = toPhaseInputs(req.Phases)
		}

		sch, err := svc.Update(r.Context(), chi.URLParam(r, "scheduleID"), claims.UserID, in)
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(sch))
	}
}

func deleteScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "scheduleID"), claims.UserID); err != nil {
			writeScheduleError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func activateScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sch, err := svc.Activate(r.Context(), chi.URLParam(r, "scheduleID"), claims.UserID)
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(sch))
	}
}

func deactivateScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sch, err := svc.Deactivate(r.Context(), chi.URLParam(r, "scheduleID"), claims.UserID)
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(sch))
	}
}

// scheduleViewHandler godoc
// @Summary Vista del schedule
// @Description Devuelve fases proyectadas (fechas, estado, conteos esperados), inyecciones asignadas a cada fase y totales del plan.
// @Tags schedules
// @Produce json
// @Param scheduleID path string true "ID del schedule"
// @Success 200 {object} scheduleViewResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "schedule not found"
// @Router /schedules/{scheduleID}/view [get]
func scheduleViewHandler(svc *Service, injSvc *injections.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sch, err := svc.GetByID(r.Context(), chi.URLParam(r, "scheduleID"))
		if err != nil || sch.UserID != claims.UserID {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}

		// Solo inyecciones de la droga de este schedule cuentan para sus fases.
		logs, err := injSvc.ListByUser(r.Context(), claims.UserID, injections.ListFilter{
			Drug: sch.Drug,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		view, err := BuildView(sch, logs, time.Now())
		if err != nil {
			// Fases mal formadas persistidas por fuera de la validación:
			// preferimos el error explícito a proyectar cualquier cosa.
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleViewResponse(view))
	}
}

// nextDoseHandler godoc
// @Summary Próxima dosis sugerida
// @Description Calcula la próxima dosis según el schedule activo y la última inyección de su droga. next_dose es null si no hay schedule activo o el plan ya terminó.
// @Tags schedules
// @Produce json
// @Success 200 {object} nextDoseEnvelope
// @Failure 401 {string} string "unauthorized"
// @Router /schedules/next-dose [get]
func nextDoseHandler(svc *Service, injSvc *injections.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sch, err := svc.GetActive(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Sin schedule activo no hay dosis que sugerir.
				writeJSON(w, http.StatusOK, nextDoseEnvelope{})
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		last, err := injSvc.LatestFor(r.Context(), claims.UserID, sch.Drug)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		suggestion, err := NextSuggestedDose(sch, last, time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if suggestion == nil {
			writeJSON(w, http.StatusOK, nextDoseEnvelope{})
			return
		}

		resp := nextDoseResponse{
			SuggestedDate: suggestion.SuggestedDate,
			IsOverdue:     suggestion.IsOverdue,
			DaysUntilDue:  suggestion.DaysUntilDue,
		}
		if suggestion.CurrentPhase != nil {
			pv := toPhaseViewResponse(*suggestion.CurrentPhase)
			resp.CurrentPhase = &pv
		}

		writeJSON(w, http.StatusOK, nextDoseEnvelope{NextDose: &resp})
	}
}

func writeScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrLimitReached):
		http.Error(w, "plan limit reached", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "schedule not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPhaseInputs(in []phaseRequest) []PhaseInput {
	out := make([]PhaseInput, 0, len(in))
	for _, p := range in {
		out = append(out, PhaseInput{
			Order:        p.Order,
			DurationDays: p.DurationDays,
			Dosage:       p.Dosage,
		})
	}
	return out
}

func toScheduleResponse(s Schedule) scheduleResponse {
	phases := make([]phaseResponse, 0, len(s.Phases))
	for _, p := range s.Phases {
		phases = append(phases, phaseResponse{
			ID:           p.ID,
			Order:        p.Order,
			DurationDays: p.DurationDays,
			Dosage:       p.Dosage,
		})
	}

	return scheduleResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Drug:      s.Drug,
		StartDate: s.StartDate.Format("2006-01-02"),
		Frequency: s.Frequency,
		IsActive:  s.IsActive,
		Phases:    phases,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toPhaseViewResponse(v PhaseView) phaseViewResponse {
	out := phaseViewResponse{
		Order:          v.Phase.Order,
		Dosage:         v.Phase.Dosage,
		StartDate:      v.StartDate.Format("2006-01-02"),
		Status:         v.Status,
		ExpectedCount:  v.ExpectedCount,
		CompletedCount: v.CompletedCount,
		Injections:     make([]assignedInjectionResponse, 0, len(v.AssignedEvents)),
	}

	if v.EndDate != nil {
		s := v.EndDate.Format("2006-01-02")
		out.EndDate = &s
	}

	for _, e := range v.AssignedEvents {
		out.Injections = append(out.Injections, assignedInjectionResponse{
			ID:            e.ID,
			Dosage:        e.Dosage,
			InjectionSite: e.InjectionSite,
			InjectedAt:    e.InjectedAt,
		})
	}

	return out
}

func toScheduleViewResponse(v View) scheduleViewResponse {
	phases := make([]phaseViewResponse, 0, len(v.Phases))
	for _, pv := range v.Phases {
		phases = append(phases, toPhaseViewResponse(pv))
	}

	out := scheduleViewResponse{
		Schedule:       toScheduleResponse(v.Schedule),
		Phases:         phases,
		TotalCompleted: v.TotalCompleted,
		TotalExpected:  v.TotalExpected,
	}

	if v.CurrentPhase != nil {
		pv := toPhaseViewResponse(*v.CurrentPhase)
		out.CurrentPhase = &pv
	}

	return out
}

// writeJSON está duplicado a propósito en los handlers de cada módulo;
// si se repite en más lugares recién ahí conviene extraer un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
