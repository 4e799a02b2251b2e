package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

// MySQLRestaurantRepo is a read-only view of the catalog. Seeding and
// management of restaurants happen outside this service.
type MySQLRestaurantRepo struct{ db *sql.DB }

func NewMySQLRestaurantRepo(db *sql.DB) *MySQLRestaurantRepo {
	return &MySQLRestaurantRepo{db: db}
}

func (r *MySQLRestaurantRepo) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,name,description,location,image,rating FROM restaurants WHERE id=?`, id)

	var rest domain.Restaurant
	if err := row.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Location,
		&rest.Image, &rest.Rating); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrRestaurantNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id,name,description,price_cents,image,ingredients,rating
FROM menu_items WHERE restaurant_id=?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.PriceCents,
			&m.Image, &m.Ingredients, &m.Rating); err != nil {
			return nil, err
		}
		rest.Menu = append(rest.Menu, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rest, nil
}

var _ usecase.RestaurantRepo = (*MySQLRestaurantRepo)(nil)
