package domain

import "time"

// Subject is the authenticated actor performing an operation.
type Subject struct {
	ID     int64
	Role   Role
	Active bool
}

// User is the persisted account backing a Subject.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	FullName     string
	Phone        *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subject projects the account onto the fields used for access decisions.
func (u *User) Subject() Subject {
	return Subject{ID: u.ID, Role: u.Role, Active: u.Active}
}
