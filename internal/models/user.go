package models

import "gorm.io/gorm"

// User is the single local identity both authentication paths converge on.
// PasswordHash is nil for accounts provisioned through the identity
// provider; such accounts have no credential-login path. ExternalID holds
// the provider's subject claim once the account is linked or provisioned.
type User struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string  `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email        string  `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash *string `json:"-" gorm:"type:varchar(255)"`
	ExternalID   *string `json:"-" gorm:"uniqueIndex;type:varchar(255)"`
	gorm.Model   `json:"-"`
}

// HasPassword reports whether the account can log in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
