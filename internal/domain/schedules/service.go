package schedules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"health-tracker/internal/ports/plans"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrLimitReached = errors.New("plan limit reached")
)

type Service struct {
	repo   Repository
	limits plans.Resolver // opcional; nil = sin topes de plan
	now    func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// UseLimits conecta el resolver de topes de plan. Si nunca se llama,
// el servicio no aplica topes (modo dev / self-hosted).
func (s *Service) UseLimits(r plans.Resolver) {
	s.limits = r
}

type PhaseInput struct {
	Order        int
	DurationDays *int
	Dosage       string
}

type CreateInput struct {
	Drug      string
	StartDate time.Time
	Frequency Frequency
	Phases    []PhaseInput
	Activate  bool
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Schedule, error) {
	if strings.TrimSpace(userID) == "" {
		return Schedule{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Drug) == "" {
		return Schedule{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return Schedule{}, ErrInvalidInput
	}
	if !in.Frequency.IsKnown() {
		return Schedule{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, in.Frequency)
	}
	if err := validatePhaseInputs(in.Phases); err != nil {
		return Schedule{}, err
	}

	if s.limits != nil {
		l, err := s.limits.LimitsFor(ctx, userID)
		if err != nil {
			return Schedule{}, err
		}
		if l.MaxSchedules > 0 {
			existing, err := s.repo.ListByUser(ctx, userID)
			if err != nil {
				return Schedule{}, err
			}
			if len(existing) >= l.MaxSchedules {
				return Schedule{}, ErrLimitReached
			}
		}
	}

	now := s.now()
	id := uuid.NewString()

	sch := Schedule{
		ID:        id,
		UserID:    userID,
		Drug:      strings.TrimSpace(in.Drug),
		StartDate: in.StartDate,
		Frequency: in.Frequency,
		Phases:    buildPhases(id, in.Phases),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, sch); err != nil {
		return Schedule{}, err
	}

	if in.Activate {
		if err := s.repo.Activate(ctx, sch.ID, userID); err != nil {
			return Schedule{}, err
		}
		sch.IsActive = true
	}

	return sch, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Drug      *string
	StartDate *time.Time
	Frequency *Frequency
	// Si viene, reemplaza el set completo de fases.
	Phases []PhaseInput
}

func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (Schedule, error) {
	sch, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return Schedule{}, err
	}

	if in.Drug != nil {
		d := strings.TrimSpace(*in.Drug)
		if d == "" {
			return Schedule{}, ErrInvalidInput
		}
		sch.Drug = d
	}
	if in.StartDate != nil {
		if in.StartDate.IsZero() {
			return Schedule{}, ErrInvalidInput
		}
		sch.StartDate = *in.StartDate
	}
	if in.Frequency != nil {
		if !in.Frequency.IsKnown() {
			return Schedule{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, *in.Frequency)
		}
		sch.Frequency = *in.Frequency
	}
	if in.Phases != nil {
		if err := validatePhaseInputs(in.Phases); err != nil {
			return Schedule{}, err
		}
		sch.Phases = buildPhases(sch.ID, in.Phases)
	}

	sch.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sch); err != nil {
		return Schedule{}, err
	}
	return sch, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Schedule{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Schedule, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetActive devuelve el schedule activo del usuario, o ErrNotFound si no hay.
func (s *Service) GetActive(ctx context.Context, userID string) (Schedule, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Schedule{}, ErrInvalidInput
	}
	return s.repo.GetActiveByUser(ctx, userID)
}

func (s *Service) Activate(ctx context.Context, id, userID string) (Schedule, error) {
	sch, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return Schedule{}, err
	}
	if err := s.repo.Activate(ctx, sch.ID, userID); err != nil {
		return Schedule{}, err
	}
	return s.repo.GetByID(ctx, sch.ID)
}

func (s *Service) Deactivate(ctx context.Context, id, userID string) (Schedule, error) {
	sch, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return Schedule{}, err
	}
	// Idempotente
	if !sch.IsActive {
		return sch, nil
	}
	if err := s.repo.Deactivate(ctx, sch.ID); err != nil {
		return Schedule{}, err
	}
	return s.repo.GetByID(ctx, sch.ID)
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	sch, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, sch.ID)
}

func (s *Service) ownedByUser(ctx context.Context, id, userID string) (Schedule, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Schedule{}, ErrInvalidInput
	}

	sch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if sch.UserID != userID {
		return Schedule{}, ErrForbidden
	}
	return sch, nil
}

// validatePhaseInputs aplica las mismas reglas que el proyector, pero en
// el borde de escritura: acá se rechaza el input inválido antes de
// persistir, así el proyector nunca ve fases mal formadas.
func validatePhaseInputs(in []PhaseInput) error {
	if len(in) == 0 {
		return fmt.Errorf("%w: at least one phase is required", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(in))
	for _, p := range in {
		if p.Order <= 0 {
			return fmt.Errorf("%w: phase order must be positive", ErrInvalidInput)
		}
		if _, dup := seen[p.Order]; dup {
			return fmt.Errorf("%w: duplicate phase order %d", ErrInvalidInput, p.Order)
		}
		seen[p.Order] = struct{}{}

		if strings.TrimSpace(p.Dosage) == "" {
			return fmt.Errorf("%w: phase %d: dosage is required", ErrInvalidInput, p.Order)
		}
		if p.DurationDays != nil && *p.DurationDays <= 0 {
			return fmt.Errorf("%w: phase %d: duration must be positive", ErrInvalidInput, p.Order)
		}
	}

	// Orden contiguo 1..n y nil solo en la última.
	for i := 1; i <= len(in); i++ {
		if _, ok := seen[i]; !ok {
			return fmt.Errorf("%w: phase orders must be contiguous starting at 1", ErrInvalidInput)
		}
	}
	for _, p := range in {
		if p.DurationDays == nil && p.Order != len(in) {
			return fmt.Errorf("%w: only the last phase may be open-ended", ErrInvalidInput)
		}
	}

	return nil
}

func buildPhases(scheduleID string, in []PhaseInput) []Phase {
	out := make([]Phase, 0, len(in))
	for _, p := range in {
		var dur *int
		if p.DurationDays != nil {
			d := *p.DurationDays
			dur = &d
		}
		out = append(out, Phase{
			ID:           uuid.NewString(),
			ScheduleID:   scheduleID,
			Order:        p.Order,
			DurationDays: dur,
			Dosage:       strings.TrimSpace(p.Dosage),
		})
	}
	return out
}
