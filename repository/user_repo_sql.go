package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"milkledger/models"
)

// SQLUserRepo stores users in the app_user table of Postgres or SQLite.
type SQLUserRepo struct {
	DB *sql.DB
	d  dialect
}

func NewPostgresUserRepo(db *sql.DB) *SQLUserRepo {
	return &SQLUserRepo{DB: db, d: postgresDialect}
}

func NewSQLiteUserRepo(db *sql.DB) *SQLUserRepo {
	return &SQLUserRepo{DB: db, d: sqliteDialect}
}

const userColumns = `id, name, username, email, password_hash, role, is_active, created_at, updated_at`

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func scanUser(row interface{ Scan(...any) error }) (*models.AppUser, error) {
	u := &models.AppUser{}
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Password, &u.Role, &u.IsActive,
		timestamp{&u.CreatedAt}, timestamp{&u.UpdatedAt})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser inserts a user whose Password already holds the bcrypt hash.
func (r *SQLUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if user.Password == "" {
		return errors.New("password hash cannot be empty")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	user.UpdatedAt = user.CreatedAt

	_, err := r.DB.ExecContext(ctx, r.d.rebind(`
		INSERT INTO app_user (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`), user.ID, user.Name, user.Username, user.Email, user.Password, user.Role, user.IsActive,
		timeValue(user.CreatedAt), timeValue(user.UpdatedAt))
	if err != nil {
		if r.d.isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *SQLUserRepo) getBy(ctx context.Context, column, value string) (*models.AppUser, error) {
	row := r.DB.QueryRowContext(ctx, r.d.rebind(`
		SELECT `+userColumns+`
		FROM app_user
		WHERE `+column+` = $1
	`), value)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *SQLUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	return r.getBy(ctx, "id", id)
}

func (r *SQLUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	return r.getBy(ctx, "email", email)
}

func (r *SQLUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error) {
	return r.getBy(ctx, "username", username)
}

func (r *SQLUserRepo) ListUsers(ctx context.Context) ([]*models.AppUser, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM app_user ORDER BY created_at, username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.AppUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLUserRepo) update(ctx context.Context, id, set string, value any) (*models.AppUser, error) {
	res, err := r.DB.ExecContext(ctx, r.d.rebind(`
		UPDATE app_user SET `+set+` = $1, updated_at = $2 WHERE id = $3
	`), value, timeValue(now()), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *SQLUserRepo) UpdateUserStatus(ctx context.Context, id string, active bool) (*models.AppUser, error) {
	return r.update(ctx, id, "is_active", active)
}

func (r *SQLUserRepo) UpdateUserRole(ctx context.Context, id, role string) (*models.AppUser, error) {
	return r.update(ctx, id, "role", role)
}

func (r *SQLUserRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&n)
	return n, err
}
