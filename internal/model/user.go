package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users are created at registration and never modified.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, case-sensitive email address.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
}

// Identity is the authenticated caller resolved from a session token.  It
// is the only view of a user that leaves the service layer.
type Identity struct {
    ID    uint64 `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}

// Identity returns the public view of u.
func (u User) Identity() Identity {
    return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}
