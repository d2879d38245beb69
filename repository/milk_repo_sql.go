package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"milkledger/models"
)

type SQLMilkRepo struct {
	DB *sql.DB
	d  dialect
}

func NewPostgresMilkRepo(db *sql.DB) *SQLMilkRepo {
	return &SQLMilkRepo{DB: db, d: postgresDialect}
}

func NewSQLiteMilkRepo(db *sql.DB) *SQLMilkRepo {
	return &SQLMilkRepo{DB: db, d: sqliteDialect}
}

const milkColumns = `id, user_id, customer_id, customer_name, entry_date, milk_type,
	liters, rate, total_amount, cash_received, credit_due, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.MilkEntry, error) {
	e := &models.MilkEntry{}
	var customerID sql.NullString
	err := row.Scan(&e.ID, &e.UserID, &customerID, &e.CustomerName, &e.Date, &e.MilkType,
		&e.Liters, &e.Rate, &e.Amount, &e.CashReceived, &e.CreditDue,
		timestamp{&e.CreatedAt}, timestamp{&e.UpdatedAt})
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		e.CustomerID = &customerID.String
	}
	return e, nil
}

func (r *SQLMilkRepo) CreateEntry(ctx context.Context, e *models.MilkEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	e.UpdatedAt = e.CreatedAt

	_, err := r.DB.ExecContext(ctx, r.d.rebind(`
		INSERT INTO milk_entry (`+milkColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`), e.ID, e.UserID, e.CustomerID, e.CustomerName, e.Date, string(e.MilkType),
		e.Liters, e.Rate, e.Amount, e.CashReceived, e.CreditDue,
		timeValue(e.CreatedAt), timeValue(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert milk entry: %w", err)
	}
	return nil
}

func (r *SQLMilkRepo) GetEntry(ctx context.Context, userID, id string) (*models.MilkEntry, error) {
	e, err := scanEntry(r.DB.QueryRowContext(ctx, r.d.rebind(`
		SELECT `+milkColumns+`
		FROM milk_entry
		WHERE id = $1 AND user_id = $2
	`), id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *SQLMilkRepo) ListEntries(ctx context.Context, f models.MilkFilter) ([]*models.MilkEntry, error) {
	where := []string{"user_id = $1"}
	args := []any{f.UserID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("entry_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("entry_date <= $%d", *f.To)
	}
	if f.CustomerName != "" {
		add("customer_name = $%d", f.CustomerName)
	}
	if f.MilkType != "" {
		add("milk_type = $%d", string(f.MilkType))
	}

	order := "entry_date DESC, created_at DESC"
	if f.Ascending {
		order = "entry_date ASC, created_at ASC"
	}

	query := `SELECT ` + milkColumns + ` FROM milk_entry WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + order

	rows, err := r.DB.QueryContext(ctx, r.d.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.MilkEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLMilkRepo) UpdateEntry(ctx context.Context, e *models.MilkEntry) error {
	e.UpdatedAt = now()
	res, err := r.DB.ExecContext(ctx, r.d.rebind(`
		UPDATE milk_entry SET
			customer_id = $1,
			customer_name = $2,
			entry_date = $3,
			milk_type = $4,
			liters = $5,
			rate = $6,
			total_amount = $7,
			cash_received = $8,
			credit_due = $9,
			updated_at = $10
		WHERE id = $11 AND user_id = $12
	`), e.CustomerID, e.CustomerName, e.Date, string(e.MilkType), e.Liters, e.Rate,
		e.Amount, e.CashReceived, e.CreditDue, timeValue(e.UpdatedAt), e.ID, e.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLMilkRepo) DeleteEntry(ctx context.Context, userID, id string) (*models.MilkEntry, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := scanEntry(tx.QueryRowContext(ctx, r.d.rebind(`
		SELECT `+milkColumns+`
		FROM milk_entry
		WHERE id = $1 AND user_id = $2
	`), id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, r.d.rebind(`DELETE FROM milk_entry WHERE id = $1`), id); err != nil {
		return nil, err
	}
	return e, tx.Commit()
}

func (r *SQLMilkRepo) Stats(ctx context.Context) (MilkStats, error) {
	var s MilkStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(credit_due), 0)
		FROM milk_entry
	`).Scan(&s.Entries, &s.TotalSales, &s.TotalCredit)
	return s, err
}
