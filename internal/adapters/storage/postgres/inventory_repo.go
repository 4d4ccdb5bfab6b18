package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"health-tracker/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) Create(ctx context.Context, i inventory.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (
			id, user_id,
			drug, label, total_doses, used_doses,
			acquired_at, expires_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		i.ID,
		i.UserID,
		i.Drug,
		i.Label,
		i.TotalDoses,
		i.UsedDoses,
		i.AcquiredAt,
		toNullTime(i.ExpiresAt),
		i.CreatedAt,
		i.UpdatedAt,
	)
	return err
}

func (r *InventoryRepo) Update(ctx context.Context, i inventory.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET
			label = $2,
			total_doses = $3,
			used_doses = $4,
			expires_at = $5,
			updated_at = $6
		WHERE id = $1
	`,
		i.ID,
		i.Label,
		i.TotalDoses,
		i.UsedDoses,
		toNullTime(i.ExpiresAt),
		i.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return inventory.Item{}, inventory.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			drug, label, total_doses, used_doses,
			acquired_at, expires_at,
			created_at, updated_at
		FROM inventory_items
		WHERE id = $1
	`, id)

	return scanItem(row)
}

func (r *InventoryRepo) ListByUser(ctx context.Context, userID string) ([]inventory.Item, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id,
			drug, label, total_doses, used_doses,
			acquired_at, expires_at,
			created_at, updated_at
		FROM inventory_items
		WHERE user_id = $1
		ORDER BY acquired_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Item, 0)
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}

	return out, rows.Err()
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func scanItem(row rowScanner) (inventory.Item, error) {
	var i inventory.Item
	var exp sql.NullTime

	if err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Drug,
		&i.Label,
		&i.TotalDoses,
		&i.UsedDoses,
		&i.AcquiredAt,
		&exp,
		&i.CreatedAt,
		&i.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return inventory.Item{}, inventory.ErrNotFound
		}
		return inventory.Item{}, err
	}

	if exp.Valid {
		t := exp.Time
		i.ExpiresAt = &t
	}

	return i, nil
}

// expires_at es DATE; lo pasamos como NullTime para simplificar
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
