package postgres

import (
	"context"
	"fmt"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/google/uuid"
)

var intakeTables = map[string]bool{
	"contact_messages":    true,
	"problem_reports":     true,
	"connection_requests": true,
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func (r *Repository) InsertContactMessage(ctx context.Context, m *domain.ContactMessage) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, phone, email, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, m.ID, m.Name, m.Phone, m.Email, m.Message, string(m.Status)).Scan(&m.CreatedAt)
}

func (r *Repository) InsertProblemReport(ctx context.Context, p *domain.ProblemReport) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO problem_reports (id, name, phone, customer_id, problem_type, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.Name, p.Phone, p.CustomerID, p.ProblemType, p.Description, string(p.Status)).Scan(&p.CreatedAt)
}

func (r *Repository) InsertConnectionRequest(ctx context.Context, c *domain.ConnectionRequest) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO connection_requests (id, name, phone, address, package_name, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, c.ID, c.Name, c.Phone, c.Address, c.PackageName, string(c.Status)).Scan(&c.CreatedAt)
}

func (r *Repository) ListContactMessages(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.ContactMessage, error) {
	q := `SELECT id, name, phone, email, message, status, created_at FROM contact_messages`
	args := []any{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, clampLimit(limit))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		var status string
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Email, &m.Message, &status, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Status = domain.RequestStatus(status)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) ListProblemReports(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.ProblemReport, error) {
	q := `SELECT id, name, phone, customer_id, problem_type, description, status, created_at FROM problem_reports`
	args := []any{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, clampLimit(limit))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProblemReport
	for rows.Next() {
		var p domain.ProblemReport
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.CustomerID, &p.ProblemType, &p.Description, &status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Status = domain.RequestStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) ListConnectionRequests(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.ConnectionRequest, error) {
	q := `SELECT id, name, phone, address, package_name, status, created_at FROM connection_requests`
	args := []any{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, clampLimit(limit))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConnectionRequest
	for rows.Next() {
		var c domain.ConnectionRequest
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.PackageName, &status, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Status = domain.RequestStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, table string, id uuid.UUID, status domain.RequestStatus) error {
	if !intakeTables[table] {
		return fmt.Errorf("table %q is not an intake table", table)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE `+table+` SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) GetStats(ctx context.Context) (domain.IntakeStats, error) {
	var stats domain.IntakeStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM connection_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM connection_requests),
			(SELECT COUNT(*) FROM contact_messages WHERE status = 'pending'),
			(SELECT COUNT(*) FROM contact_messages),
			(SELECT COUNT(*) FROM problem_reports WHERE status = 'pending'),
			(SELECT COUNT(*) FROM problem_reports)
	`).Scan(
		&stats.ConnectionRequests.Pending, &stats.ConnectionRequests.Total,
		&stats.ContactMessages.Pending, &stats.ContactMessages.Total,
		&stats.ProblemReports.Pending, &stats.ProblemReports.Total,
	)
	return stats, err
}
