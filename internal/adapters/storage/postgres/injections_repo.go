package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"health-tracker/internal/domain/injections"
)

type InjectionsRepo struct {
	db *sql.DB
}

func NewInjectionsRepo(db *sql.DB) *InjectionsRepo {
	return &InjectionsRepo{db: db}
}

func (r *InjectionsRepo) Create(ctx context.Context, l injections.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO injection_logs (
			id, user_id,
			drug, dosage, injection_site, notes,
			injected_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		l.ID,
		l.UserID,
		l.Drug,
		l.Dosage,
		l.InjectionSite,
		l.Notes,
		l.InjectedAt,
		l.CreatedAt,
	)
	return err
}

func (r *InjectionsRepo) GetByID(ctx context.Context, id string) (injections.Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return injections.Log{}, injections.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			drug, dosage, injection_site, notes,
			injected_at, created_at
		FROM injection_logs
		WHERE id = $1
	`, id)

	var l injections.Log
	if err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Drug,
		&l.Dosage,
		&l.InjectionSite,
		&l.Notes,
		&l.InjectedAt,
		&l.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return injections.Log{}, injections.ErrNotFound
		}
		return injections.Log{}, err
	}

	return l, nil
}

func (r *InjectionsRepo) ListByUser(ctx context.Context, userID string, filter injections.ListFilter) ([]injections.Log, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, user_id,
			drug, dosage, injection_site, notes,
			injected_at, created_at
		FROM injection_logs
		WHERE user_id = $1
	`)

	args := []any{userID}
	argN := 2

	if d := strings.TrimSpace(filter.Drug); d != "" {
		sb.WriteString(fmt.Sprintf(" AND LOWER(drug) = LOWER($%d)", argN))
		args = append(args, d)
		argN++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND injected_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND injected_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	sb.WriteString(" ORDER BY injected_at DESC")

	// Limit <= 0 = sin límite: el proyector necesita la historia completa
	// para contar dosis por fase; el tope para la API lo pone el handler.
	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]injections.Log, 0)
	for rows.Next() {
		var l injections.Log
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Drug,
			&l.Dosage,
			&l.InjectionSite,
			&l.Notes,
			&l.InjectedAt,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *InjectionsRepo) LatestByDrug(ctx context.Context, userID, drug string) (injections.Log, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			drug, dosage, injection_site, notes,
			injected_at, created_at
		FROM injection_logs
		WHERE user_id = $1 AND LOWER(drug) = LOWER($2)
		ORDER BY injected_at DESC
		LIMIT 1
	`, userID, drug)

	var l injections.Log
	if err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Drug,
		&l.Dosage,
		&l.InjectionSite,
		&l.Notes,
		&l.InjectedAt,
		&l.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return injections.Log{}, injections.ErrNotFound
		}
		return injections.Log{}, err
	}

	return l, nil
}

func (r *InjectionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM injection_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return injections.ErrNotFound
	}
	return nil
}
