package users

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/auth"
	"github.com/jobdeck/server/internal/sanitize"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Usernames share the slug shape of company handles.
var usernameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRE.MatchString(fl.Field().String())
	})
	return v
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: newValidator()}
}

// Register creates a non-admin user. Self-registration can never mint admins;
// admin accounts only come from Create or the bootstrap path.
func (s *Service) Register(ctx context.Context, params CreateParams) (*User, error) {
	params.IsAdmin = false
	return s.Create(ctx, params)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	params.Username = strings.ToLower(strings.TrimSpace(params.Username))
	params.FirstName = sanitize.Text(params.FirstName)
	params.LastName = sanitize.Text(params.LastName)
	params.Email = strings.TrimSpace(params.Email)

	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params, hash)
}

// Authenticate checks a username/password pair against the stored hash.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	creds, err := s.repo.GetCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(creds.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	details, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &details.User, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, username string) (*UserDetails, error) {
	return s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

func (s *Service) Update(ctx context.Context, username string, params UpdateParams) (*User, error) {
	if params.Empty() {
		return nil, ErrNoFields
	}
	if params.FirstName != nil {
		clean := sanitize.Text(*params.FirstName)
		params.FirstName = &clean
	}
	if params.LastName != nil {
		clean := sanitize.Text(*params.LastName)
		params.LastName = &clean
	}
	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, err
	}

	update := StoredUpdate{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
	}
	if params.Password != nil {
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	return s.repo.Update(ctx, strings.ToLower(strings.TrimSpace(username)), update)
}

func (s *Service) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, strings.ToLower(strings.TrimSpace(username)))
}

// Apply records a job application for the user.
func (s *Service) Apply(ctx context.Context, username string, jobID int64) error {
	return s.repo.Apply(ctx, strings.ToLower(strings.TrimSpace(username)), jobID)
}
