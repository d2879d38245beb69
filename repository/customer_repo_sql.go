package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"milkledger/models"
)

type SQLCustomerRepo struct {
	DB *sql.DB
	d  dialect
}

func NewPostgresCustomerRepo(db *sql.DB) *SQLCustomerRepo {
	return &SQLCustomerRepo{DB: db, d: postgresDialect}
}

func NewSQLiteCustomerRepo(db *sql.DB) *SQLCustomerRepo {
	return &SQLCustomerRepo{DB: db, d: sqliteDialect}
}

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	c := &models.Customer{}
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, timestamp{&c.CreatedAt}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLCustomerRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	_, err := r.DB.ExecContext(ctx, r.d.rebind(`
		INSERT INTO customer (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`), c.ID, c.UserID, c.Name, timeValue(c.CreatedAt))
	if err != nil {
		if r.d.isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *SQLCustomerRepo) ListCustomers(ctx context.Context, userID string) ([]*models.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, r.d.rebind(`
		SELECT id, user_id, name, created_at
		FROM customer
		WHERE user_id = $1
		ORDER BY name
	`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *SQLCustomerRepo) GetCustomerByName(ctx context.Context, userID, name string) (*models.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, r.d.rebind(`
		SELECT id, user_id, name, created_at
		FROM customer
		WHERE user_id = $1 AND name = $2
	`), userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *SQLCustomerRepo) DeleteCustomer(ctx context.Context, userID, id string) (*models.Customer, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c, err := scanCustomer(tx.QueryRowContext(ctx, r.d.rebind(`
		SELECT id, user_id, name, created_at
		FROM customer
		WHERE id = $1 AND user_id = $2
	`), id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, r.d.rebind(`DELETE FROM customer WHERE id = $1`), id); err != nil {
		return nil, err
	}
	return c, tx.Commit()
}

func (r *SQLCustomerRepo) CountCustomers(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer`).Scan(&n)
	return n, err
}
