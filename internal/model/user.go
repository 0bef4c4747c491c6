package model

import "time"

// User is a club member.  MEMBER users log viewings and add movies;
// MAINTAINER users additionally manage categories and streaming
// services.  The identity itself (credentials, tokens) lives in the
// auth layer; core operations only ever receive the user's ID.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email, stored lower-cased.
//  DisplayName  – name shown next to viewings and recommendations.
//  PasswordHash – bcrypt hash of the password.
//  Role         – MEMBER or MAINTAINER.
//  IsActive     – soft-disable flag.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	DisplayName  string    // users.display_name
	PasswordHash string    // users.password_hash
	Role         string    // users.role (MEMBER, MAINTAINER)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
