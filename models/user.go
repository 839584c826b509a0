package models

import "time"

// UserRecord is the per-user document holding the ordered collection sequence.
// The whole sequence is rewritten on every add/delete.
type UserRecord struct {
	ID          string       `gorm:"primaryKey;size:128" json:"id" firestore:"-"`
	Collections []Collection `gorm:"type:text;serializer:json" json:"flashcards" firestore:"flashcards"`
	CreatedAt   time.Time    `json:"-" firestore:"-"`
	UpdatedAt   time.Time    `json:"-" firestore:"-"`
}

// TableName keeps the table named after the record it mirrors.
func (UserRecord) TableName() string {
	return "users"
}

// Identity is the current user as seen by the identity provider.
type Identity struct {
	ID         string `json:"id"`
	IsSignedIn bool   `json:"isSignedIn"`
	IsLoaded   bool   `json:"isLoaded"`
}
