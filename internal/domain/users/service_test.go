package users

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/server/internal/auth"
)

type stubRepository struct {
	created     *CreateParams
	createdHash string
	updated     *StoredUpdate
	credentials *Credentials
	credsErr    error
}

func (s *stubRepository) Create(ctx context.Context, params CreateParams, passwordHash string) (*User, error) {
	s.created = &params
	s.createdHash = passwordHash
	return &User{Username: params.Username, IsAdmin: params.IsAdmin}, nil
}

func (s *stubRepository) GetCredentials(ctx context.Context, username string) (*Credentials, error) {
	if s.credsErr != nil {
		return nil, s.credsErr
	}
	return s.credentials, nil
}

func (s *stubRepository) List(ctx context.Context) ([]User, error) {
	return nil, nil
}

func (s *stubRepository) GetByUsername(ctx context.Context, username string) (*UserDetails, error) {
	return &UserDetails{User: User{Username: username}}, nil
}

func (s *stubRepository) Update(ctx context.Context, username string, update StoredUpdate) (*User, error) {
	s.updated = &update
	return &User{Username: username}, nil
}

func (s *stubRepository) Delete(ctx context.Context, username string) error {
	return nil
}

func (s *stubRepository) Apply(ctx context.Context, username string, jobID int64) error {
	return nil
}

func validParams() CreateParams {
	return CreateParams{
		Username:  "rosa",
		Password:  "secret123",
		FirstName: "Rosa",
		LastName:  "Diaz",
		Email:     "rosa@example.com",
	}
}

func TestRegister_NeverAdmin(t *testing.T) {
	repo := &stubRepository{}
	service := NewService(repo)

	params := validParams()
	params.IsAdmin = true

	user, err := service.Register(context.Background(), params)

	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.False(t, repo.created.IsAdmin)
}

func TestCreate_AdminAllowed(t *testing.T) {
	repo := &stubRepository{}
	service := NewService(repo)

	params := validParams()
	params.IsAdmin = true

	user, err := service.Create(context.Background(), params)

	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestCreate_HashesPassword(t *testing.T) {
	repo := &stubRepository{}
	service := NewService(repo)

	_, err := service.Create(context.Background(), validParams())

	require.NoError(t, err)
	assert.NotEqual(t, "secret123", repo.createdHash)
	assert.NoError(t, auth.CheckPassword(repo.createdHash, "secret123"))
}

func TestCreate_ValidationFailures(t *testing.T) {
	service := NewService(&stubRepository{})

	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{name: "short password", mutate: func(p *CreateParams) { p.Password = "abc" }},
		{name: "bad email", mutate: func(p *CreateParams) { p.Email = "not-an-email" }},
		{name: "username with spaces", mutate: func(p *CreateParams) { p.Username = "ro sa" }},
		{name: "missing first name", mutate: func(p *CreateParams) { p.FirstName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := service.Create(context.Background(), params)

			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestAuthenticate_Success(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	repo := &stubRepository{credentials: &Credentials{Username: "rosa", PasswordHash: hash}}
	service := NewService(repo)

	user, err := service.Authenticate(context.Background(), "Rosa", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "rosa", user.Username)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	repo := &stubRepository{credentials: &Credentials{Username: "rosa", PasswordHash: hash}}
	service := NewService(repo)

	_, err = service.Authenticate(context.Background(), "rosa", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	repo := &stubRepository{credsErr: ErrNotFound}
	service := NewService(repo)

	// Unknown user and wrong password are indistinguishable to the caller.
	_, err := service.Authenticate(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdate_HashesNewPassword(t *testing.T) {
	repo := &stubRepository{}
	service := NewService(repo)

	password := "newsecret"
	_, err := service.Update(context.Background(), "rosa", UpdateParams{Password: &password})

	require.NoError(t, err)
	require.NotNil(t, repo.updated.PasswordHash)
	assert.NotEqual(t, "newsecret", *repo.updated.PasswordHash)
	assert.NoError(t, auth.CheckPassword(*repo.updated.PasswordHash, "newsecret"))
}

func TestUpdate_EmptyParams(t *testing.T) {
	service := NewService(&stubRepository{})

	_, err := service.Update(context.Background(), "rosa", UpdateParams{})
	assert.ErrorIs(t, err, ErrNoFields)
}
