package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound             = errors.New("user not found")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrDuplicateEmail       = errors.New("email already taken")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrUnknownJob           = errors.New("job does not exist")
	ErrNoFields             = errors.New("no fields to update")
)

type User struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

// UserDetails includes the ids of jobs the user has applied to.
type UserDetails struct {
	User
	Jobs []int64 `json:"jobs"`
}

// Credentials is the stored auth record for a user; never serialized.
type Credentials struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
}

type CreateParams struct {
	Username  string `validate:"required,min=1,max=25,username"`
	Password  string `validate:"required,min=5,max=72"`
	FirstName string `validate:"required,max=30"`
	LastName  string `validate:"required,max=30"`
	Email     string `validate:"required,email"`
	IsAdmin   bool
}

// UpdateParams carries a partial update; username and is_admin cannot be
// changed through PATCH.
type UpdateParams struct {
	FirstName *string `validate:"omitempty,min=1,max=30"`
	LastName  *string `validate:"omitempty,min=1,max=30"`
	Email     *string `validate:"omitempty,email"`
	Password  *string `validate:"omitempty,min=5,max=72"`
}

func (p UpdateParams) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Password == nil
}

// StoredUpdate is what reaches the repository: the password has already been
// hashed by the service.
type StoredUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams, passwordHash string) (*User, error)
	GetCredentials(ctx context.Context, username string) (*Credentials, error)
	List(ctx context.Context) ([]User, error)
	GetByUsername(ctx context.Context, username string) (*UserDetails, error)
	Update(ctx context.Context, username string, update StoredUpdate) (*User, error)
	Delete(ctx context.Context, username string) error
	Apply(ctx context.Context, username string, jobID int64) error
}
