package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"health-tracker/internal/domain/weights"
)

type WeightsRepo struct {
	db *sql.DB
}

func NewWeightsRepo(db *sql.DB) *WeightsRepo {
	return &WeightsRepo{db: db}
}

func (r *WeightsRepo) Create(ctx context.Context, e weights.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_entries (
			id, user_id, weight_kg, notes, measured_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		e.ID,
		e.UserID,
		e.WeightKg,
		e.Notes,
		e.MeasuredAt,
		e.CreatedAt,
	)
	return err
}

func (r *WeightsRepo) GetByID(ctx context.Context, id string) (weights.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return weights.Entry{}, weights.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, weight_kg, notes, measured_at, created_at
		FROM weight_entries
		WHERE id = $1
	`, id)

	var e weights.Entry
	if err := row.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.Notes, &e.MeasuredAt, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return weights.Entry{}, weights.ErrNotFound
		}
		return weights.Entry{}, err
	}

	return e, nil
}

func (r *WeightsRepo) ListByUser(ctx context.Context, userID string, filter weights.ListFilter) ([]weights.Entry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, user_id, weight_kg, notes, measured_at, created_at
		FROM weight_entries
		WHERE user_id = $1
	`)

	args := []any{userID}
	argN := 2

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND measured_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND measured_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	// Ascendente: la tendencia de peso consume cronológico.
	sb.WriteString(" ORDER BY measured_at ASC")

	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weights.Entry, 0)
	for rows.Next() {
		var e weights.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.Notes, &e.MeasuredAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *WeightsRepo) Latest(ctx context.Context, userID string) (weights.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, weight_kg, notes, measured_at, created_at
		FROM weight_entries
		WHERE user_id = $1
		ORDER BY measured_at DESC
		LIMIT 1
	`, userID)

	var e weights.Entry
	if err := row.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.Notes, &e.MeasuredAt, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return weights.Entry{}, weights.ErrNotFound
		}
		return weights.Entry{}, err
	}

	return e, nil
}

func (r *WeightsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weight_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return weights.ErrNotFound
	}
	return nil
}
