package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/google/uuid"
)

// PostgresAvailabilityRepository implements domain.AvailabilityRepository.
type PostgresAvailabilityRepository struct {
	conn database.Connection
}

func NewPostgresAvailabilityRepository(conn database.Connection) *PostgresAvailabilityRepository {
	return &PostgresAvailabilityRepository{conn: conn}
}

func (r *PostgresAvailabilityRepository) ListForDate(ctx context.Context, date time.Time) (map[uuid.UUID]domain.AvailabilityWindow, error) {
	query := `
		SELECT staff_id, start_slot, end_slot
		FROM shiftplan_availability
		WHERE date = $1
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.AvailabilityWindow)
	for rows.Next() {
		var (
			staffID           uuid.UUID
			startSlot, endSlot int
		)
		if err := rows.Scan(&staffID, &startSlot, &endSlot); err != nil {
			return nil, fmt.Errorf("list availability: scan: %w", err)
		}
		out[staffID] = domain.AvailabilityWindow{StaffID: staffID, Date: date, StartSlot: startSlot, EndSlot: endSlot}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return out, nil
}

func (r *PostgresAvailabilityRepository) Upsert(ctx context.Context, w domain.AvailabilityWindow) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	query := `
		INSERT INTO shiftplan_availability (staff_id, date, start_slot, end_slot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_id, date) DO UPDATE SET
			start_slot = EXCLUDED.start_slot,
			end_slot = EXCLUDED.end_slot
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query, w.StaffID, w.Date.Format("2006-01-02"), w.StartSlot, w.EndSlot)
	if err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}
