package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VehicleRepository handles catalog data access.
type VehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository creates a new VehicleRepository.
func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleColumns = `id, brand, model, price, images, condition, category, specs, created_at`

// List returns vehicles matching the filter, newest first.
func (r *VehicleRepository) List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Category != "" {
		add("LOWER(category) = LOWER($%d)", f.Category)
	}
	if f.Condition != "" {
		add("LOWER(condition) = LOWER($%d)", f.Condition)
	}
	if f.Brand != "" {
		add("LOWER(brand) = LOWER($%d)", f.Brand)
	}
	if f.Query != "" {
		add(`(brand ILIKE $%[1]d ESCAPE '\' OR model ILIKE $%[1]d ESCAPE '\')`, containsPattern(f.Query))
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.Brand, &v.Model, &v.Price, &v.Images, &v.Condition, &v.Category, &v.Specs, &v.CreatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetByID retrieves a single vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, id int) (*model.Vehicle, error) {
	v := &model.Vehicle{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.Brand, &v.Model, &v.Price, &v.Images, &v.Condition, &v.Category, &v.Specs, &v.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// Create inserts a new vehicle and fills in its ID and timestamp.
func (r *VehicleRepository) Create(ctx context.Context, v *model.Vehicle) error {
	if v.Images == nil {
		v.Images = []string{}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO vehicles (brand, model, price, images, condition, category, specs)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		v.Brand, v.Model, v.Price, v.Images, v.Condition, v.Category, v.Specs,
	).Scan(&v.ID, &v.CreatedAt)
}

// Delete removes a vehicle by ID.
func (r *VehicleRepository) Delete(ctx context.Context, id int) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q as a literal substring.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
