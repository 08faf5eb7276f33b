package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	users  map[string]*User
	audits []LoginAudit
	nextID int64

	findErr        error
	createErr      error
	recordErr      error
	createConflict bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[string]*User), nextID: 1}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) Create(ctx context.Context, fields NewUser) (*User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.createConflict {
		return nil, ErrEmailTaken
	}
	if _, exists := s.users[fields.Email]; exists {
		return nil, ErrEmailTaken
	}
	now := time.Now()
	user := &User{
		ID:           s.nextID,
		Email:        fields.Email,
		PasswordHash: fields.PasswordHash,
		Name:         fields.Name,
		Role:         fields.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextID++
	s.users[fields.Email] = user
	return user, nil
}

func (s *stubRepo) RecordLogin(ctx context.Context, entry LoginAudit) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.audits = append(s.audits, entry)
	return nil
}

func (s *stubRepo) DeleteExpiredAudit(ctx context.Context, before time.Time) (int64, error) {
	var kept []LoginAudit
	var deleted int64
	for _, a := range s.audits {
		if a.ExpiresAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	s.audits = kept
	return deleted, nil
}

var _ Repository = (*stubRepo)(nil)

func newTestService(repo Repository) *Service {
	return NewService(repo, NewHasher(4))
}

func TestSignUpStoresHashNotPlaintext(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	user, err := svc.SignUp(context.Background(), signUpPayload())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, RoleUser, user.Role)

	stored := repo.users["ann@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Abcdef1!", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestSignUpExistingEmailConflicts(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	_, err := svc.SignUp(context.Background(), signUpPayload())
	require.NoError(t, err)

	// Same password as the existing account.
	_, err = svc.SignUp(context.Background(), signUpPayload())
	require.ErrorIs(t, err, ErrEmailTaken)

	// Different password makes no difference.
	p := signUpPayload()
	p.Password = "Zyxwvu9?"
	_, err = svc.SignUp(context.Background(), p)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpLateUniqueViolationIsConflict(t *testing.T) {
	// Simulates losing the race: the pre-check sees no user but the insert
	// trips the storage unique constraint.
	repo := newStubRepo()
	repo.createConflict = true
	svc := newTestService(repo)

	_, err := svc.SignUp(context.Background(), signUpPayload())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpStorageFailureIsNotConflict(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = errors.New("connection reset")
	svc := newTestService(repo)

	_, err := svc.SignUp(context.Background(), signUpPayload())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestSignInUnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	_, err := svc.SignUp(context.Background(), signUpPayload())
	require.NoError(t, err)

	_, unknownErr := svc.SignIn(context.Background(), "nobody@example.com", "Abcdef1!")
	_, wrongErr := svc.SignIn(context.Background(), "ann@example.com", "Wrong-pass1")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
}

func TestSignInSuccess(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	_, err := svc.SignUp(context.Background(), signUpPayload())
	require.NoError(t, err)

	user, err := svc.SignIn(context.Background(), "ann@example.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
}

func TestSignInCorruptHashIsUnexpected(t *testing.T) {
	repo := newStubRepo()
	repo.users["ann@example.com"] = &User{
		ID: 1, Email: "ann@example.com", PasswordHash: "corrupt", Role: RoleUser,
	}
	svc := newTestService(repo)

	_, err := svc.SignIn(context.Background(), "ann@example.com", "Abcdef1!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials,
		"corrupt stored hash must not masquerade as a credential failure")
}

func TestPublicUserOmitsPassword(t *testing.T) {
	stored := &User{ID: 7, Email: "ann@example.com", PasswordHash: "hash", Name: "Ann", Role: RoleAdmin}
	public := stored.Public()
	assert.Equal(t, stored.ID, public.ID)
	assert.Equal(t, stored.Email, public.Email)
	assert.Equal(t, stored.Name, public.Name)
	assert.Equal(t, stored.Role, public.Role)
}
