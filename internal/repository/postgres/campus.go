package postgres

import (
	"context"
	"fmt"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/pkg/database"
)

// CampusRepository implements repository.CampusRepository using PostgreSQL.
type CampusRepository struct {
	db database.DBTX
}

// NewCampusRepository creates a new PostgreSQL-backed campus repository.
func NewCampusRepository(db database.DBTX) *CampusRepository {
	return &CampusRepository{db: db}
}

// List returns all campuses ordered by name.
func (r *CampusRepository) List(ctx context.Context) ([]domain.Campus, error) {
	query := `SELECT id, name, city, state FROM campuses ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	defer rows.Close()

	var campuses []domain.Campus
	for rows.Next() {
		var c domain.Campus
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.State); err != nil {
			return nil, fmt.Errorf("scan campus row: %w", err)
		}
		campuses = append(campuses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campus rows: %w", err)
	}

	if campuses == nil {
		campuses = []domain.Campus{}
	}

	return campuses, nil
}
