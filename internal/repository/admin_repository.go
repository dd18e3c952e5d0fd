package repository

import (
	"context"

	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository handles admin account data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// FindByUsername retrieves an admin by their unique username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// Insert creates a new admin. Returns ErrDuplicate when the username is taken.
func (r *AdminRepository) Insert(ctx context.Context, username, passwordHash string) (*model.Admin, error) {
	a := &model.Admin{Username: username, PasswordHash: passwordHash}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		username, passwordHash,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// Delete removes an admin by username.
func (r *AdminRepository) Delete(ctx context.Context, username string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE username = $1`, username)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash for username.
func (r *AdminRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	res, err := r.pool.Exec(ctx,
		`UPDATE admins SET password_hash = $1, updated_at = NOW() WHERE username = $2`,
		passwordHash, username,
	)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAllExceptSuperadmin returns every admin other than the reserved account, oldest first.
func (r *AdminRepository) ListAllExceptSuperadmin(ctx context.Context, superadmin string) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM admins WHERE username <> $1
		 ORDER BY created_at ASC, id ASC`, superadmin,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []model.Admin{}
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}
