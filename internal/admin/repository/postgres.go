package repository

import (
	"context"
	"database/sql"
	"errors"

	"gymaccess/internal/admin"
	"gymaccess/pkg/db"
)

type PostgresAdminRepository struct {
	q db.Querier
}

func NewPostgresAdminRepository(q db.Querier) *PostgresAdminRepository {
	return &PostgresAdminRepository{q: q}
}

func (r *PostgresAdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	query := `INSERT INTO admins (name, email, password) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.q.QueryRowContext(ctx, query, a.Name, a.Email, a.Password).Scan(&a.ID, &a.CreatedAt)
}

// GetByEmail returns nil, nil when no admin has that email.
func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	return r.get(ctx, `SELECT id, name, email, password, created_at FROM admins WHERE email = $1`, email)
}

func (r *PostgresAdminRepository) GetByID(ctx context.Context, id int64) (*admin.Admin, error) {
	return r.get(ctx, `SELECT id, name, email, password, created_at FROM admins WHERE id = $1`, id)
}

func (r *PostgresAdminRepository) get(ctx context.Context, query string, arg any) (*admin.Admin, error) {
	a := &admin.Admin{}
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Password,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}
