package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccountKind string

const (
	KindSuperAdmin AccountKind = "superadmin"
	KindStaff      AccountKind = "staff"
)

// ParseAccountKind reports false for anything but the two known kinds.
func ParseAccountKind(s string) (AccountKind, bool) {
	switch AccountKind(s) {
	case KindSuperAdmin, KindStaff:
		return AccountKind(s), true
	}
	return "", false
}

// Account is either a *SuperAdmin or a *Staff.
type Account interface {
	Kind() AccountKind
	PasswordHash() string
	Profile() *Profile
}

type SuperAdmin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      string             `bson:"role" json:"role"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

func (a *SuperAdmin) Kind() AccountKind    { return KindSuperAdmin }
func (a *SuperAdmin) PasswordHash() string { return a.Password }

func (a *SuperAdmin) Profile() *Profile {
	return &Profile{
		ID:        a.ID.Hex(),
		Kind:      KindSuperAdmin,
		Username:  a.Username,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		ScopingID: a.ID.Hex(),
	}
}

type Staff struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	ParentID  primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

func (s *Staff) Kind() AccountKind    { return KindStaff }
func (s *Staff) PasswordHash() string { return s.Password }

func (s *Staff) Profile() *Profile {
	return &Profile{
		ID:        s.ID.Hex(),
		Kind:      KindStaff,
		Username:  s.Email,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Role:      string(KindStaff),
		ScopingID: s.ParentID.Hex(),
	}
}

// Profile is what a resolved session carries through request handling.
// ScopingID is the administrator id every business query filters on.
type Profile struct {
	ID        string      `json:"id"`
	Kind      AccountKind `json:"user_type"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Role      string      `json:"role"`
	ScopingID string      `json:"admin_id"`
}
