package goals

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	StartWeightKg  float64
	TargetWeightKg float64
	TargetDate     *time.Time
}

// Create crea un objetivo activo. Si había otro activo, lo marca abandoned:
// el invariante "uno activo por usuario" se resuelve acá con primitivas del
// repo, igual que la deduplicación de schedules activos.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Goal, error) {
	if strings.TrimSpace(userID) == "" {
		return Goal{}, ErrInvalidInput
	}
	if in.StartWeightKg <= 0 || in.TargetWeightKg <= 0 {
		return Goal{}, ErrInvalidInput
	}
	if in.StartWeightKg == in.TargetWeightKg {
		return Goal{}, ErrInvalidInput
	}

	now := s.now()

	if prev, err := s.repo.GetActiveByUser(ctx, userID); err == nil {
		prev.Status = StatusAbandoned
		prev.UpdatedAt = now
		if err := s.repo.Update(ctx, prev); err != nil {
			return Goal{}, err
		}
	}

	g := Goal{
		ID:             uuid.NewString(),
		UserID:         userID,
		StartWeightKg:  in.StartWeightKg,
		TargetWeightKg: in.TargetWeightKg,
		TargetDate:     in.TargetDate,
		Status:         StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Goal, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetActive devuelve el objetivo activo, o ErrNotFound si no hay.
func (s *Service) GetActive(ctx context.Context, userID string) (Goal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Goal{}, ErrInvalidInput
	}
	return s.repo.GetActiveByUser(ctx, userID)
}

func (s *Service) Achieve(ctx context.Context, id, userID string) (Goal, error) {
	return s.transition(ctx, id, userID, StatusAchieved)
}

func (s *Service) Abandon(ctx context.Context, id, userID string) (Goal, error) {
	return s.transition(ctx, id, userID, StatusAbandoned)
}

func (s *Service) transition(ctx context.Context, id, userID string, to Status) (Goal, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Goal{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	if g.UserID != userID {
		return Goal{}, ErrForbidden
	}

	// Idempotente
	if g.Status == to {
		return g, nil
	}
	if g.Status != StatusActive {
		return Goal{}, ErrBadState
	}

	g.Status = to
	g.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// Progress calcula el avance hacia el objetivo en porcentaje 0..100 dado el
// último peso medido. Funciona para objetivos de bajar y de subir.
func Progress(g Goal, latestWeightKg float64) float64 {
	total := g.TargetWeightKg - g.StartWeightKg
	if total == 0 {
		return 0
	}
	done := (latestWeightKg - g.StartWeightKg) / total * 100
	return math.Max(0, math.Min(100, done))
}
