package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"health-tracker/internal/ports/plans"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrDepleted     = errors.New("no doses remaining")
	ErrLimitReached = errors.New("plan limit reached")
)

type Service struct {
	repo   Repository
	limits plans.Resolver // opcional
	now    func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// UseLimits conecta el resolver de topes de plan (opcional).
func (s *Service) UseLimits(r plans.Resolver) {
	s.limits = r
}

type CreateInput struct {
	Drug       string
	Label      string
	TotalDoses int
	AcquiredAt time.Time
	ExpiresAt  *time.Time
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Item, error) {
	if strings.TrimSpace(userID) == "" {
		return Item{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Drug) == "" {
		return Item{}, ErrInvalidInput
	}
	if in.TotalDoses <= 0 {
		return Item{}, ErrInvalidInput
	}

	if s.limits != nil {
		l, err := s.limits.LimitsFor(ctx, userID)
		if err != nil {
			return Item{}, err
		}
		if l.MaxInventoryItems > 0 {
			existing, err := s.repo.ListByUser(ctx, userID)
			if err != nil {
				return Item{}, err
			}
			if len(existing) >= l.MaxInventoryItems {
				return Item{}, ErrLimitReached
			}
		}
	}

	now := s.now()

	at := in.AcquiredAt
	if at.IsZero() {
		at = now
	}

	i := Item{
		ID:         uuid.NewString(),
		UserID:     userID,
		Drug:       strings.TrimSpace(in.Drug),
		Label:      strings.TrimSpace(in.Label),
		TotalDoses: in.TotalDoses,
		UsedDoses:  0,
		AcquiredAt: at,
		ExpiresAt:  in.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return Item{}, err
	}
	return i, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Item, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UseDose descuenta una dosis del item. ErrDepleted si ya no quedan.
func (s *Service) UseDose(ctx context.Context, id, userID string) (Item, error) {
	i, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return Item{}, err
	}
	if i.Depleted() {
		return Item{}, ErrDepleted
	}

	i.UsedDoses++
	i.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, i); err != nil {
		return Item{}, err
	}
	return i, nil
}

type AdjustInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Label      *string
	TotalDoses *int
	UsedDoses  *int
	ExpiresAt  *time.Time
}

// Adjust corrige conteos/etiqueta de un item (p.ej. dosis perdida o mal
// cargada). No valida contra inyecciones registradas: el stock es una
// ayuda de inventario, no un libro contable.
func (s *Service) Adjust(ctx context.Context, id, userID string, in AdjustInput) (Item, error) {
	i, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return Item{}, err
	}

	if in.Label != nil {
		i.Label = strings.TrimSpace(*in.Label)
	}
	if in.TotalDoses != nil {
		if *in.TotalDoses <= 0 {
			return Item{}, ErrInvalidInput
		}
		i.TotalDoses = *in.TotalDoses
	}
	if in.UsedDoses != nil {
		if *in.UsedDoses < 0 {
			return Item{}, ErrInvalidInput
		}
		i.UsedDoses = *in.UsedDoses
	}
	if in.ExpiresAt != nil {
		i.ExpiresAt = in.ExpiresAt
	}

	if i.UsedDoses > i.TotalDoses {
		return Item{}, ErrInvalidInput
	}

	i.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, i); err != nil {
		return Item{}, err
	}
	return i, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	i, err := s.ownedByUser(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, i.ID)
}

func (s *Service) ownedByUser(ctx context.Context, id, userID string) (Item, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Item{}, ErrInvalidInput
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if i.UserID != userID {
		return Item{}, ErrForbidden
	}
	return i, nil
}
