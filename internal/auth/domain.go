package auth

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// User is an account allowed to call the API.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity converts the stored user into the request principal.
func (u User) Identity() shared.Identity {
	return shared.Identity{
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Organization: u.Organization,
		Role:         u.Role,
	}
}

// Wrapped sentinels so handlers can map via errors.Is.
var (
	ErrNotFound           = fmt.Errorf("auth: user: %w", shared.ErrNotFound)
	ErrDuplicateEmail     = fmt.Errorf("auth: email already registered: %w", shared.ErrDuplicate)
	ErrInvalidCredentials = fmt.Errorf("auth: invalid email or password: %w", shared.ErrInvalidCredentials)
)
