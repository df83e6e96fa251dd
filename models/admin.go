package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Admin struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password" json:"-"` // never expose
	Name         string        `bson:"name" json:"name"`
	Role         Role          `bson:"role" json:"role"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	LastLogin    *time.Time    `bson:"lastLogin,omitempty" json:"lastLogin"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// AdminUpdate is a partial update; nil fields are left untouched.
// Password carries plaintext and is hashed before it reaches a repository.
type AdminUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
	IsActive *bool
}
