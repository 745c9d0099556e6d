package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// cleanupTables whitelists the table names DeleteByUser may touch. Table
// names cannot be bound as SQL parameters, so anything outside this set is
// rejected before query assembly.
var cleanupTables = func() map[string]bool {
	m := make(map[string]bool, len(domain.CleanupTables))
	for _, t := range domain.CleanupTables {
		m[t] = true
	}
	return m
}()

// GetRole reads the role row for userID. Absence means RoleUser; there is no
// caching, every call hits the backend.
func (r *Repository) GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	var role string
	err := r.pool.QueryRow(ctx, `
		SELECT role FROM user_roles WHERE user_id = $1
	`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RoleUser, nil
		}
		return "", err
	}
	return domain.ParseRole(role), nil
}

func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role domain.Role) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `
		SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2
	`, userID, string(role)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) AssignRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`, userID, string(role))
	return err
}

// DeleteByUser removes every row keyed by userID from one cleanup table.
// Deleting zero rows is not an error.
func (r *Repository) DeleteByUser(ctx context.Context, table string, userID uuid.UUID) error {
	if !cleanupTables[table] {
		return fmt.Errorf("table %q is not a cleanup table", table)
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID)
	return err
}
