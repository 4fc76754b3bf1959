package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jobdeck/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

var userUpdateColumns = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"password":   "password_hash",
}

const userColumns = "username, first_name, last_name, email, is_admin"

func scanUser(row pgx.Row) (*users.User, error) {
	var u users.User
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}

func mapUserConflict(err error) error {
	if pgErrCode(err) != pgUniqueViolation {
		return nil
	}
	if strings.Contains(pgConstraint(err), "email") {
		return users.ErrDuplicateEmail
	}
	return users.ErrDuplicateUsername
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams, passwordHash string) (*users.User, error) {
	const query = `
INSERT INTO users (username, password_hash, first_name, last_name, email, is_admin)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING username, first_name, last_name, email, is_admin`

	row := r.queryer().QueryRow(ctx, query,
		params.Username, passwordHash, params.FirstName, params.LastName, params.Email, params.IsAdmin)

	user, err := scanUser(row)
	if err != nil {
		if mapped := mapUserConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetCredentials(ctx context.Context, username string) (*users.Credentials, error) {
	const query = `SELECT username, password_hash, is_admin FROM users WHERE username = $1`

	var creds users.Credentials
	err := r.queryer().QueryRow(ctx, query, username).
		Scan(&creds.Username, &creds.PasswordHash, &creds.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return &creds, nil
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY username`

	rows, err := r.queryer().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*users.UserDetails, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.queryer().QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	const appsQuery = `SELECT job_id FROM applications WHERE username = $1 ORDER BY job_id`

	rows, err := r.queryer().Query(ctx, appsQuery, username)
	if err != nil {
		return nil, fmt.Errorf("get user applications: %w", err)
	}
	defer rows.Close()

	details := users.UserDetails{User: *user, Jobs: make([]int64, 0)}
	for rows.Next() {
		var jobID int64
		if err := rows.Scan(&jobID); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		details.Jobs = append(details.Jobs, jobID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get user applications: %w", err)
	}
	return &details, nil
}

func (r *UserRepository) Update(ctx context.Context, username string, update users.StoredUpdate) (*users.User, error) {
	data := map[string]any{}
	if update.FirstName != nil {
		data["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		data["last_name"] = *update.LastName
	}
	if update.Email != nil {
		data["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		data["password"] = *update.PasswordHash
	}

	query, args, err := buildPartialUpdate("users", data, userUpdateColumns, "username", username)
	if err != nil {
		if errors.Is(err, errEmptyUpdate) {
			return nil, users.ErrNoFields
		}
		return nil, err
	}
	query += " RETURNING " + userColumns

	user, err := scanUser(r.queryer().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		if mapped := mapUserConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Apply(ctx context.Context, username string, jobID int64) error {
	const query = `INSERT INTO applications (username, job_id) VALUES ($1, $2)`

	_, err := r.queryer().Exec(ctx, query, username, jobID)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return users.ErrDuplicateApplication
		case pgForeignKeyViolation:
			if strings.Contains(pgConstraint(err), "job") {
				return users.ErrUnknownJob
			}
			return users.ErrNotFound
		}
		return fmt.Errorf("apply to job: %w", err)
	}
	return nil
}
