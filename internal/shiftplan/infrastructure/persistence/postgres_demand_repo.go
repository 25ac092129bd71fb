package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// PostgresDemandRepository implements domain.DemandRepository across the
// two demand tiers: per-date overrides and per-weekday templates.
type PostgresDemandRepository struct {
	conn database.Connection
}

func NewPostgresDemandRepository(conn database.Connection) *PostgresDemandRepository {
	return &PostgresDemandRepository{conn: conn}
}

func (r *PostgresDemandRepository) OverridesForDate(ctx context.Context, date time.Time) (map[int]domain.DemandTriple, error) {
	query := `
		SELECT slot_index, min_count, target_count, max_count
		FROM shiftplan_demand_override
		WHERE date = $1
	`
	return r.scanTriples(ctx, query, date.Format("2006-01-02"))
}

func (r *PostgresDemandRepository) TemplateForWeekday(ctx context.Context, weekday time.Weekday) (map[int]domain.DemandTriple, error) {
	query := `
		SELECT slot_index, min_count, target_count, max_count
		FROM shiftplan_demand_template
		WHERE weekday = $1
	`
	return r.scanTriples(ctx, query, int(weekday))
}

func (r *PostgresDemandRepository) scanTriples(ctx context.Context, query string, arg any) (map[int]domain.DemandTriple, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("scan demand triples: %w", err)
	}
	defer rows.Close()

	out := make(map[int]domain.DemandTriple)
	for rows.Next() {
		var (
			slot                        int
			minCount, target, maxCount int
		)
		if err := rows.Scan(&slot, &minCount, &target, &maxCount); err != nil {
			return nil, fmt.Errorf("scan demand triples: scan: %w", err)
		}
		out[slot] = domain.DemandTriple{Min: minCount, Target: target, Max: maxCount}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan demand triples: %w", err)
	}
	return out, nil
}

func (r *PostgresDemandRepository) UpsertOverride(ctx context.Context, d domain.DaySlotDemand) error {
	if err := d.DemandTriple.Validate(); err != nil {
		return fmt.Errorf("upsert demand override: %w", err)
	}
	query := `
		INSERT INTO shiftplan_demand_override (date, slot_index, min_count, target_count, max_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date, slot_index) DO UPDATE SET
			min_count = EXCLUDED.min_count,
			target_count = EXCLUDED.target_count,
			max_count = EXCLUDED.max_count
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query, d.Date.Format("2006-01-02"), d.SlotIndex, d.Min, d.Target, d.Max)
	if err != nil {
		return fmt.Errorf("upsert demand override: %w", err)
	}
	return nil
}

func (r *PostgresDemandRepository) UpsertTemplate(ctx context.Context, w domain.WeekdaySlotDemand) error {
	if err := w.DemandTriple.Validate(); err != nil {
		return fmt.Errorf("upsert demand template: %w", err)
	}
	query := `
		INSERT INTO shiftplan_demand_template (weekday, slot_index, min_count, target_count, max_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (weekday, slot_index) DO UPDATE SET
			min_count = EXCLUDED.min_count,
			target_count = EXCLUDED.target_count,
			max_count = EXCLUDED.max_count
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query, int(w.Weekday), w.SlotIndex, w.Min, w.Target, w.Max)
	if err != nil {
		return fmt.Errorf("upsert demand template: %w", err)
	}
	return nil
}

func (r *PostgresDemandRepository) ApplyDefault(ctx context.Context, date time.Time, triple domain.DemandTriple) error {
	if err := triple.Validate(); err != nil {
		return fmt.Errorf("apply default demand: %w", err)
	}
	exec := database.ExecutorFromContext(ctx, r.conn)
	for slot := 0; slot < domain.NumSlots; slot++ {
		query := `
			INSERT INTO shiftplan_demand_override (date, slot_index, min_count, target_count, max_count)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (date, slot_index) DO UPDATE SET
				min_count = EXCLUDED.min_count,
				target_count = EXCLUDED.target_count,
				max_count = EXCLUDED.max_count
		`
		if _, err := exec.Exec(ctx, query, date.Format("2006-01-02"), slot, triple.Min, triple.Target, triple.Max); err != nil {
			return fmt.Errorf("apply default demand: slot %d: %w", slot, err)
		}
	}
	return nil
}
