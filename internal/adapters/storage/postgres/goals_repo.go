package postgres

import (
	"context"
	"database/sql"
	"strings"

	"health-tracker/internal/domain/goals"
)

type GoalsRepo struct {
	db *sql.DB
}

func NewGoalsRepo(db *sql.DB) *GoalsRepo {
	return &GoalsRepo{db: db}
}

func (r *GoalsRepo) Create(ctx context.Context, g goals.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (
			id, user_id,
			start_weight_kg, target_weight_kg, target_date,
			status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		g.ID,
		g.UserID,
		g.StartWeightKg,
		g.TargetWeightKg,
		toNullTime(g.TargetDate),
		string(g.Status),
		g.CreatedAt,
		g.UpdatedAt,
	)
	return err
}

func (r *GoalsRepo) Update(ctx context.Context, g goals.Goal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET
			start_weight_kg = $2,
			target_weight_kg = $3,
			target_date = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1
	`,
		g.ID,
		g.StartWeightKg,
		g.TargetWeightKg,
		toNullTime(g.TargetDate),
		string(g.Status),
		g.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return goals.ErrNotFound
	}
	return nil
}

func (r *GoalsRepo) GetByID(ctx context.Context, id string) (goals.Goal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return goals.Goal{}, goals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			start_weight_kg, target_weight_kg, target_date,
			status,
			created_at, updated_at
		FROM goals
		WHERE id = $1
	`, id)

	return scanGoal(row)
}

func (r *GoalsRepo) ListByUser(ctx context.Context, userID string) ([]goals.Goal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id,
			start_weight_kg, target_weight_kg, target_date,
			status,
			created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]goals.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	return out, rows.Err()
}

func (r *GoalsRepo) GetActiveByUser(ctx context.Context, userID string) (goals.Goal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			start_weight_kg, target_weight_kg, target_date,
			status,
			created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID)

	return scanGoal(row)
}

func scanGoal(row rowScanner) (goals.Goal, error) {
	var g goals.Goal
	var td sql.NullTime
	var status string

	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.StartWeightKg,
		&g.TargetWeightKg,
		&td,
		&status,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return goals.Goal{}, goals.ErrNotFound
		}
		return goals.Goal{}, err
	}

	if td.Valid {
		t := td.Time
		g.TargetDate = &t
	}
	g.Status = goals.Status(status)

	return g, nil
}
