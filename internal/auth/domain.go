package auth

import "time"

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a stored user account including its password hash.
// It must never be serialized into an HTTP response; use Public instead.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-safe projection of a User.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public converts the stored record into its client-safe projection.
// Sensitive fields are dropped here and nowhere else.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUser carries the fields required to create an account.
// Password is already hashed by the time it reaches the repository.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

// LoginAudit records a successful credential exchange for later review.
// It is informational only; tokens stay valid regardless of these rows.
type LoginAudit struct {
	ID        string
	UserID    int64
	TokenID   string
	IP        string
	UserAgent string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
