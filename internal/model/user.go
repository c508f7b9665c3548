// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered shopper account.
//
// Email is the natural key users identify themselves with; it is normalized
// to lowercase before storage and lookup, and the store enforces uniqueness
// on the normalized value. We still generate our own internal string ID
// (xid) as the primary key so tokens and foreign keys never depend on a
// mutable attribute like the email address.
//
// WHY PasswordHash string (not *string)?
// Accounts created through Google sign-in carry no local credential at all.
// We use the empty string as the "no credential" value rather than a
// nullable pointer — simpler to work with, and bcrypt hashes are never
// empty, so there is no ambiguity.
//
// LastLoginAt is set once at creation and never updated afterwards. The
// login flow deliberately does not touch it; downstream consumers must not
// treat it as a liveness signal.
type User struct {
	ID             string    `json:"id"             db:"id"              bson:"_id"`
	Name           string    `json:"name"           db:"name"            bson:"name"`
	Email          string    `json:"email"          db:"email"           bson:"email"` // always lowercase
	PasswordHash   string    `json:"-"              db:"password_hash"   bson:"password"`
	IsGoogleUser   bool      `json:"isGoogleUser"   db:"is_google_user"  bson:"isGoogleUser"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture" bson:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"      bson:"createdAt"`
	LastLoginAt    time.Time `json:"lastLoginAt"    db:"last_login_at"   bson:"lastLogin"`
}

// UserSummary is the projection of a User that is safe to put in an API
// response. It never includes the credential hash.
type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Summary returns the response-safe projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}
