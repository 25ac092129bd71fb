package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/google/uuid"
)

// PostgresStaffRepository implements domain.StaffRepository using the
// driver-agnostic database.Connection seam.
type PostgresStaffRepository struct {
	conn database.Connection
}

func NewPostgresStaffRepository(conn database.Connection) *PostgresStaffRepository {
	return &PostgresStaffRepository{conn: conn}
}

func (r *PostgresStaffRepository) ListAll(ctx context.Context) ([]domain.Staff, error) {
	query := `
		SELECT id, name, is_key_person, is_newbie
		FROM shiftplan_staff
		ORDER BY name
	`
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var staff []domain.Staff
	for rows.Next() {
		var (
			id          uuid.UUID
			name        string
			isKeyPerson bool
			isNewbie    bool
		)
		if err := rows.Scan(&id, &name, &isKeyPerson, &isNewbie); err != nil {
			return nil, fmt.Errorf("list staff: scan: %w", err)
		}
		staff = append(staff, domain.Staff{ID: id, Name: name, IsKeyPerson: isKeyPerson, IsNewbie: isNewbie})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}
