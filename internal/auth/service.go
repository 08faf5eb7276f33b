package auth

import (
	"context"
	"errors"
	"fmt"
)

// Service wraps registration and authentication business rules.
type Service struct {
	repo   Repository
	hasher *Hasher
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher *Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// SignUp creates an account for a previously unused email. The existence
// check is a best-effort optimization; the storage unique constraint is the
// real guarantee, and a late violation surfaces as ErrEmailTaken too.
func (s *Service) SignUp(ctx context.Context, in SignUpPayload) (*PublicUser, error) {
	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, NewUser{
		Email:        in.Email,
		PasswordHash: hashed,
		Name:         in.Name,
		Role:         in.Role,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user.Public(), nil
}

// SignIn validates email/password credentials. Unknown email and wrong
// password are indistinguishable to the caller; a corrupt stored hash is not
// a credential failure and propagates as an unexpected error.
func (s *Service) SignIn(ctx context.Context, email, password string) (*PublicUser, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user.Public(), nil
}

// RecordLogin persists login audit metadata. Callers treat failures as
// non-fatal; authentication has already succeeded by the time this runs.
func (s *Service) RecordLogin(ctx context.Context, entry LoginAudit) error {
	return s.repo.RecordLogin(ctx, entry)
}
