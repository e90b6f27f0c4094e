// Package model defines the persisted document and its entities.
package model

import "time"

// Roles a user record can carry. Exactly one record holds RoleAdmin.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ReservedAdminUsername is the fixed username of the single admin account.
// It can never be claimed, renamed, deleted, or invalidated.
const ReservedAdminUsername = "admin"

// User is an account stored in the document. PasswordHash is opaque and is
// never returned to API callers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	Validated    bool      `json:"validated"`
	SignedUpAt   time.Time `json:"signedUpAt"`
}

// IsAdmin reports whether the record is the reserved admin account.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSummary is the only user shape exposed by administrative listing.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Validated bool   `json:"validated"`
}

// Summary strips the user down to its listing shape.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Validated: u.Validated}
}

// Item is a single to-do entry owned by exactly one user through the
// document's ItemsByUserID mapping.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Document is the whole dataset: read and rewritten in full on every mutation.
type Document struct {
	Users         []User            `json:"users"`
	ItemsByUserID map[string][]Item `json:"itemsByUserId"`
}

// NewDocument returns an empty document with both collections allocated so
// the marshalled form always carries both keys.
func NewDocument() *Document {
	return &Document{
		Users:         []User{},
		ItemsByUserID: map[string][]Item{},
	}
}

// Clone returns a deep copy. Mutations applied to the copy never alias the
// receiver's slices or map.
func (d *Document) Clone() *Document {
	c := &Document{
		Users:         make([]User, len(d.Users)),
		ItemsByUserID: make(map[string][]Item, len(d.ItemsByUserID)),
	}
	copy(c.Users, d.Users)
	for uid, items := range d.ItemsByUserID {
		c.ItemsByUserID[uid] = append([]Item(nil), items...)
	}
	return c
}
