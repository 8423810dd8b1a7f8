package models

import (
	"time"
)

// User is the public view of an account. The password hash is deliberately
// not part of this struct: it lives only inside the repositories package,
// so a User can never carry the secret out of the credential store.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TokenClaims is the minimal identity payload embedded in a session token.
type TokenClaims struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ClaimsFromUser builds the token payload for a user.
func ClaimsFromUser(user *User) TokenClaims {
	return TokenClaims{
		ID:       user.ID,
		Fullname: user.Fullname,
		IsAdmin:  user.IsAdmin,
	}
}
