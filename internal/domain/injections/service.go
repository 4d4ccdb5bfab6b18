package injections

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
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
	Drug          string
	Dosage        string
	InjectionSite string
	Notes         string
	InjectedAt    time.Time
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Log, error) {
	if strings.TrimSpace(userID) == "" {
		return Log{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Drug) == "" {
		return Log{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Dosage) == "" {
		return Log{}, ErrInvalidInput
	}

	now := s.now()

	at := in.InjectedAt
	if at.IsZero() {
		at = now
	}
	// Registrar hacia el futuro no tiene sentido clínico; toleramos
	// un pequeño margen por skew de reloj del cliente.
	if at.After(now.Add(5 * time.Minute)) {
		return Log{}, ErrInvalidInput
	}

	l := Log{
		ID:            uuid.NewString(),
		UserID:        userID,
		Drug:          strings.TrimSpace(in.Drug),
		Dosage:        strings.TrimSpace(in.Dosage),
		InjectionSite: strings.TrimSpace(in.InjectionSite),
		Notes:         strings.TrimSpace(in.Notes),
		InjectedAt:    at,
		CreatedAt:     now,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Log{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Log, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// LatestFor devuelve el timestamp de la última inyección de (userID, drug),
// o nil si nunca se inyectó esa droga. "Sin inyección previa" es un
// resultado normal, no un error.
func (s *Service) LatestFor(ctx context.Context, userID, drug string) (*time.Time, error) {
	l, err := s.repo.LatestByDrug(ctx, userID, drug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := l.InjectedAt
	return &t, nil
}

// Delete borra el log solo si pertenece al usuario.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
