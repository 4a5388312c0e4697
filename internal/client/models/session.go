package models

// UserType is the role recorded at login.
type UserType string

const (
	UserTypeEmployee UserType = "Employee"
	UserTypeAdmin    UserType = "Admin"
)

// Session is the identity of the connected user, as persisted by login.
// Email is only required to contain an @; short local addresses such as
// "a@a" are accepted.
type Session struct {
	Type  UserType `json:"type" validate:"required,oneof=Employee Admin"`
	Email string   `json:"email,omitempty" validate:"omitempty,contains=@"`
}
