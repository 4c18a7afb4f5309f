package model

import "time"

// Role enumerates the closed set of account roles. The value is stored in
// the users.role column and carried in the JWT "role" claim. Any string
// outside this set is treated as RoleBuyer, the least privileged role.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a raw role string into the closed enumeration.
// Unknown or empty values degrade to RoleBuyer.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleSeller:
		return RoleSeller
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleBuyer
	}
}

// Capability derivations are centralized here so role semantics are never
// re-derived ad hoc in handlers: admin implies all capabilities, seller
// implies seller+buyer, buyer implies only buyer.

// IsAdmin reports whether the role grants platform administration.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// IsSeller reports whether the role may manage listings and incoming orders.
func (r Role) IsSeller() bool { return r == RoleSeller || r == RoleAdmin }

// IsBuyer reports whether the role may carry a cart and place orders.
// Every role can buy; sellers shop like anyone else.
func (r Role) IsBuyer() bool { return true }

// CanManageUsers reports whether the role may change other users' roles.
func (r Role) CanManageUsers() bool { return r == RoleAdmin }

// CanManageProducts reports whether the role may delete arbitrary listings.
func (r Role) CanManageProducts() bool { return r == RoleAdmin }

// CanViewAnalytics reports whether the role may read platform statistics.
func (r Role) CanViewAnalytics() bool { return r == RoleAdmin }

// User represents a profile row in the `users` table. Exactly one profile
// exists per authenticated identity; the row is created during registration
// and lazily re-created on first session when missing.
//
// Fields:
//
//	ID           – primary key identifier, equal to the auth identity id.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password (never serialized).
//	FullName     – display name shown next to listings and orders.
//	Role         – closed role enumeration, never empty (defaults to buyer).
//	Phone        – optional contact phone, pre-fills checkout.
//	Address      – optional free-form address.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token value is persisted.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
