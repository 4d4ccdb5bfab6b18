package weights

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
	WeightKg   float64
	Notes      string
	MeasuredAt time.Time
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Entry, error) {
	if strings.TrimSpace(userID) == "" {
		return Entry{}, ErrInvalidInput
	}
	// Rango plausible en kg; descarta typos tipo 755 en vez de 75.5.
	if in.WeightKg <= 0 || in.WeightKg > 500 {
		return Entry{}, ErrInvalidInput
	}

	now := s.now()

	at := in.MeasuredAt
	if at.IsZero() {
		at = now
	}

	e := Entry{
		ID:         uuid.NewString(),
		UserID:     userID,
		WeightKg:   in.WeightKg,
		Notes:      strings.TrimSpace(in.Notes),
		MeasuredAt: at,
		CreatedAt:  now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Entry, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

// Latest devuelve la última medición, o nil si no hay ninguna.
func (s *Service) Latest(ctx context.Context, userID string) (*Entry, error) {
	e, err := s.repo.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
