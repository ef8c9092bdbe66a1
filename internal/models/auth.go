package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	Username     string     `bun:"username,notnull,unique" json:"username"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	FullName     string     `bun:"full_name,notnull" json:"full_name"`
	Role         string     `bun:"role,notnull" json:"role"`
	Status       string     `bun:"status,notnull,default:'active'" json:"status"`
	Provider     string     `bun:"provider,notnull,default:'local'" json:"provider"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	LastLoginAt  *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`

	Permissions []*Permission `bun:"rel:has-many,join:id=user_id" json:"permissions,omitempty"`
}

// Permission grants a single feature to a single user. (user_id, feature_key)
// pairs are unique.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID     int64     `bun:"user_id,notnull" json:"user_id"`
	FeatureKey string    `bun:"feature_key,notnull" json:"feature_key"`
	IsAllowed  bool      `bun:"is_allowed,notnull,default:true" json:"is_allowed"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// PermissionSet is a user's allowed feature keys, checked by membership.
type PermissionSet map[string]struct{}

// NewPermissionSet keeps only the allowed rows.
func NewPermissionSet(perms []*Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		if p.IsAllowed {
			set[p.FeatureKey] = struct{}{}
		}
	}
	return set
}

// Has reports whether the feature is granted.
func (s PermissionSet) Has(feature string) bool {
	_, ok := s[feature]
	return ok
}

// UserCreateRequest is the admin payload for provisioning a user.
type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UserUpdateRequest carries optional user field updates.
type UserUpdateRequest struct {
	FullName *string `json:"full_name"`
	Status   *string `json:"status"`
	Password *string `json:"password"`
}

// PermissionUpdate is one toggle inside a bulk permission update.
type PermissionUpdate struct {
	FeatureKey string `json:"feature_key"`
	IsAllowed  bool   `json:"is_allowed"`
}

// PermissionsBulkUpdate replaces a user's feature grants.
type PermissionsBulkUpdate struct {
	Permissions []PermissionUpdate `json:"permissions"`
}
