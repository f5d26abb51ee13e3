package model

import "time"

// User represents a marketplace account as stored in the `users` table.
// A user acts both as a seller (owner of products) and as a buyer
// (owner of orders).  The password hash is excluded from every JSON
// rendering; handlers never build a response type that includes it.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – globally unique login name.
//  Email        – globally unique email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  Address      – optional postal address.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      *string   `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}
