package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleStaff   Role = "Role1"
	RoleStudent Role = "Role2"
)

// Roles is the decoded form of the comma separated role list stored on
// invitations.
type Roles struct {
	Admin   bool
	Staff   bool
	Student bool
}

func ParseRoles(csv string) (Roles, error) {
	var r Roles
	for _, part := range strings.Split(csv, ",") {
		switch Role(strings.TrimSpace(part)) {
		case RoleAdmin:
			r.Admin = true
		case RoleStaff:
			r.Staff = true
		case RoleStudent:
			r.Student = true
		case "":
		default:
			return Roles{}, fmt.Errorf("unknown role %q", strings.TrimSpace(part))
		}
	}
	return r, nil
}

func (r Roles) String() string {
	var parts []string
	if r.Admin {
		parts = append(parts, string(RoleAdmin))
	}
	if r.Staff {
		parts = append(parts, string(RoleStaff))
	}
	if r.Student {
		parts = append(parts, string(RoleStudent))
	}
	return strings.Join(parts, ",")
}

func (r Roles) Empty() bool {
	return !r.Admin && !r.Staff && !r.Student
}

type User struct {
	Id                 UserId
	UserName           UserName
	PassHash           string
	FirstName          string
	MiddleName         string
	LastName           string
	PreferredFirstName string
	Email              Email
	Roles              Roles
}

func (u User) IsAdmin() bool {
	return u.Roles.Admin
}

// staff and admins may moderate content and work tickets
func (u User) CanModerate() bool {
	return u.Roles.Admin || u.Roles.Staff
}

func (u User) IsStudentOnly() bool {
	return u.Roles.Student && !u.Roles.Admin && !u.Roles.Staff
}

// NewAccount is what a person submits when redeeming an invitation.
type NewAccount struct {
	UserName           UserName `validate:"required,alphanum,min=3,max=32"`
	Password           string   `validate:"required,min=8,max=72"`
	FirstName          string   `validate:"required,max=64"`
	MiddleName         string   `validate:"max=64"`
	LastName           string   `validate:"required,max=64"`
	PreferredFirstName string   `validate:"max=64"`
}
