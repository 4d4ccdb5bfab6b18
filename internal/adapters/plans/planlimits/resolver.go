package planlimits

import (
	"context"
	"os"
	"strings"

	"health-tracker/internal/ports/plans"
)

// Resolver implementa plans.Resolver contra el servicio de planes.
// Con UNLIMITED_PLAN=true (env) devuelve topes cero (= sin tope) sin
// llamar upstream: modo dev / self-hosted.
type Resolver struct {
	client    *Client
	unlimited bool
}

func NewResolver(client *Client) *Resolver {
	unlimited := strings.EqualFold(strings.TrimSpace(os.Getenv("UNLIMITED_PLAN")), "true")
	return &Resolver{
		client:    client,
		unlimited: unlimited,
	}
}

func (r *Resolver) LimitsFor(ctx context.Context, userID string) (plans.Limits, error) {
	if r.unlimited {
		return plans.Limits{}, nil
	}
	if r == nil || r.client == nil || !r.client.IsConfigured() {
		// Preferimos fallar explícito antes que inventar un tope.
		return plans.Limits{}, ErrPlansNotConfigured
	}

	resp, err := r.client.GetLimits(ctx, userID)
	if err != nil {
		return plans.Limits{}, err
	}

	return plans.Limits{
		MaxSchedules:      resp.MaxSchedules,
		MaxInventoryItems: resp.MaxInventoryItems,
	}, nil
}
