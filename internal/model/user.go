package model

// User represents an operator account as stored in the `users` table.
// The password is kept as an opaque bcrypt hash and is never serialized.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
type User struct {
    ID           int    `json:"id"`       // users.id
    Username     string `json:"username"` // users.username
    PasswordHash string `json:"-"`        // users.password
}

// NewUser carries the fields needed to create a user.  PasswordHash must
// already be hashed by the caller.
type NewUser struct {
    Username     string
    PasswordHash string
}
