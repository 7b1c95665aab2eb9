package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/postgresql/db"
)

const uniqueViolation = "23505"

// User represents the repository used for interacting with User records.
type User struct {
	q *db.Queries
}

// NewUser instantiates the User repository.
func NewUser(conn db.DBTX) *User {
	return &User{
		q: db.New(conn),
	}
}

// Create inserts a new user record, usernames and emails are unique.
func (u *User) Create(ctx context.Context, params internal.RegisterParams, passwordHash string, now time.Time) (internal.User, error) {
	defer newOTELSpan(ctx, "User.Create").End()

	row, err := u.q.InsertUser(ctx, db.InsertUserParams{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
		CreatedAt:    newTimestamp(now),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_email_key" {
				return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeConflict, "Email already exists")
			}

			return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeConflict, "Username already exists")
		}

		return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "insert user")
	}

	return convertUser(row), nil
}

// Find returns the user with the given id.
func (u *User) Find(ctx context.Context, id int64) (internal.User, error) {
	defer newOTELSpan(ctx, "User.Find").End()

	row, err := u.q.SelectUser(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "User not found")
		}

		return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select user")
	}

	return convertUser(row), nil
}

// FindByUsername returns the user with the given username.
func (u *User) FindByUsername(ctx context.Context, username string) (internal.User, error) {
	defer newOTELSpan(ctx, "User.FindByUsername").End()

	row, err := u.q.SelectUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "User not found")
		}

		return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select user")
	}

	return convertUser(row), nil
}
