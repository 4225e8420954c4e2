package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// User represents an account: a teacher (admin), a student, or the
// superadmin. Students carry their teacher's tenant in OwnerAdmin; admins
// own themselves; the superadmin owns the public tenant (nil).
type User struct {
	ID           UserID    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	// PasswordHash is a bcrypt hash. The API response layer has its own
	// user type; this tag only shapes the storage document.
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	OwnerAdmin   *TenantID `json:"owner_admin"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal builds the request identity for this user
func (u *User) Principal() *Principal {
	return &Principal{
		UserID:       u.ID,
		Role:         u.Role,
		OwnerAdmin:   u.OwnerAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
	}
}
