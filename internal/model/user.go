package model

import "time"

// User represents an application user record as stored in the `users`
// table. Role is one of online, foh, kitchen (spec.md §6) and gates
// which endpoints a bearer token may call.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – online, foh, or kitchen.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// User role values (spec.md §6).
const (
    RoleOnline  = "online"
    RoleFOH     = "foh"
    RoleKitchen = "kitchen"
)
