package postgres

import (
	"context"
	"database/sql"
	"strings"

	"health-tracker/internal/domain/schedules"
)

type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

func (r *SchedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedules (
			id, user_id,
			drug, start_date, frequency, is_active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		s.ID,
		s.UserID,
		s.Drug,
		s.StartDate,
		string(s.Frequency),
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertPhases(ctx, tx, s.ID, s.Phases); err != nil {
		return err
	}

	return tx.Commit()
}

// Update reemplaza el schedule completo: las fases se borran y reinsertan
// dentro de la misma transacción.
func (r *SchedulesRepo) Update(ctx context.Context, s schedules.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE schedules
		SET
			drug = $2,
			start_date = $3,
			frequency = $4,
			updated_at = $5
		WHERE id = $1
	`,
		s.ID,
		s.Drug,
		s.StartDate,
		string(s.Frequency),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_phases WHERE schedule_id = $1`, s.ID); err != nil {
		return err
	}
	if err := insertPhases(ctx, tx, s.ID, s.Phases); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedules.Schedule{}, schedules.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			drug, start_date, frequency, is_active,
			created_at, updated_at
		FROM schedules
		WHERE id = $1
	`, id)

	s, err := scanSchedule(row)
	if err != nil {
		return schedules.Schedule{}, err
	}

	phases, err := r.loadPhases(ctx, s.ID)
	if err != nil {
		return schedules.Schedule{}, err
	}
	s.Phases = phases

	return s, nil
}

func (r *SchedulesRepo) ListByUser(ctx context.Context, userID string) ([]schedules.Schedule, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id,
			drug, start_date, frequency, is_active,
			created_at, updated_at
		FROM schedules
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		phases, err := r.loadPhases(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Phases = phases
	}

	return out, nil
}

func (r *SchedulesRepo) GetActiveByUser(ctx context.Context, userID string) (schedules.Schedule, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return schedules.Schedule{}, schedules.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			drug, start_date, frequency, is_active,
			created_at, updated_at
		FROM schedules
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID)

	s, err := scanSchedule(row)
	if err != nil {
		return schedules.Schedule{}, err
	}

	phases, err := r.loadPhases(ctx, s.ID)
	if err != nil {
		return schedules.Schedule{}, err
	}
	s.Phases = phases

	return s, nil
}

// Activate implementa el invariante "a lo sumo uno activo por usuario":
// desactivar-todos + activar-uno en la misma transacción.
func (r *SchedulesRepo) Activate(ctx context.Context, id, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE schedules
		SET is_active = FALSE
		WHERE user_id = $1 AND is_active = TRUE
	`, userID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE schedules
		SET is_active = TRUE
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}

	return tx.Commit()
}

func (r *SchedulesRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedules
		SET is_active = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	// schedule_phases tiene ON DELETE CASCADE sobre schedule_id
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) loadPhases(ctx context.Context, scheduleID string) ([]schedules.Phase, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, phase_order, duration_days, dosage
		FROM schedule_phases
		WHERE schedule_id = $1
		ORDER BY phase_order ASC
	`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Phase, 0)
	for rows.Next() {
		var p schedules.Phase
		var dur sql.NullInt64
		if err := rows.Scan(&p.ID, &p.ScheduleID, &p.Order, &dur, &p.Dosage); err != nil {
			return nil, err
		}
		if dur.Valid {
			d := int(dur.Int64)
			p.DurationDays = &d
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func insertPhases(ctx context.Context, tx *sql.Tx, scheduleID string, phases []schedules.Phase) error {
	for _, p := range phases {
		var dur sql.NullInt64
		if p.DurationDays != nil {
			dur = sql.NullInt64{Int64: int64(*p.DurationDays), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_phases (id, schedule_id, phase_order, duration_days, dosage)
			VALUES ($1,$2,$3,$4,$5)
		`, p.ID, scheduleID, p.Order, dur, p.Dosage); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (schedules.Schedule, error) {
	var s schedules.Schedule
	var freq string

	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Drug,
		&s.StartDate,
		&freq,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return schedules.Schedule{}, schedules.ErrNotFound
		}
		return schedules.Schedule{}, err
	}

	s.Frequency = schedules.Frequency(freq)
	return s, nil
}
