package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the persisted user document. The password field holds a bcrypt
// hash, never plaintext, and is excluded from JSON serialization.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string        `bson:"username" json:"username"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"-"`
	Profile   string        `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updatedAt"`
}

// UserUpdate carries a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Profile  *string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on the driver.
//
// Every lookup returns (nil, nil) when no document matches; a non-nil
// error always means a store-level fault, never "not found".
type UserRepository interface {
	// FindAll returns every user in store order. An empty store yields
	// an empty slice, not an error.
	FindAll(ctx context.Context) ([]User, error)

	// FindByID returns the user with the given id, or (nil, nil) when the
	// id is malformed or matches nothing.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the user with exactly the given username
	// (case-sensitive equality), or (nil, nil).
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create inserts a new user and returns it with the store-assigned id.
	Create(ctx context.Context, user *User) (*User, error)

	// Update merges the provided fields into the document and returns the
	// post-update snapshot, or (nil, nil) when the id matches nothing.
	Update(ctx context.Context, id string, update UserUpdate) (*User, error)

	// Delete removes the document and returns its pre-deletion snapshot,
	// or (nil, nil) when the id matches nothing.
	Delete(ctx context.Context, id string) (*User, error)
}
