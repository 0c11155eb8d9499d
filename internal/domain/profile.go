// Package domain contains entities without logic, just meta-data
package domain

import "errors"

const (
	MaxProfileIDLen = 64
	MaxNameLen      = 64
	MaxBioLen       = 280
)

var (
	ErrProfileIDEmpty   = errors.New("profile id empty")
	ErrProfileIDTooLong = errors.New("profile id too long")
	ErrNameEmpty        = errors.New("display name empty")
	ErrNameTooLong      = errors.New("display name too long")
	ErrBioTooLong       = errors.New("bio too long")
)

// Profile is the identity a client announces. Uniqueness is not enforced;
// last write wins per connection.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

func (p Profile) Validate() error {
	if p.ID == "" {
		return ErrProfileIDEmpty
	}
	if len(p.ID) > MaxProfileIDLen {
		return ErrProfileIDTooLong
	}
	if p.Name == "" {
		return ErrNameEmpty
	}
	if len(p.Name) > MaxNameLen {
		return ErrNameTooLong
	}
	if len(p.Bio) > MaxBioLen {
		return ErrBioTooLong
	}
	return nil
}

// GuestProfile is the placeholder used when a client joins without
// announcing who it is.
func GuestProfile() Profile {
	return Profile{ID: "guest", Name: "Guest"}
}
