package models

import "time"

// Flashcard is a single front/back card stored inside one collection's sub-store.
// ID is assigned by the store on creation and is empty for freshly generated cards.
type Flashcard struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id,omitempty" firestore:"-"`
	UserID     string    `gorm:"not null;size:128;index:idx_cards_user_collection" json:"-" firestore:"-"`
	Collection string    `gorm:"not null;size:200;index:idx_cards_user_collection" json:"-" firestore:"-"`
	Front      string    `gorm:"not null" json:"front" firestore:"front"`
	Back       string    `gorm:"not null" json:"back" firestore:"back"`
	Date       *int64    `json:"date,omitempty" firestore:"date,omitempty"`
	Thematic   *string   `gorm:"size:200" json:"thematic,omitempty" firestore:"thematic,omitempty"`
	CreatedAt  time.Time `json:"-" firestore:"-"`
}

// ThematicOrEmpty returns the thematic label, treating a missing one as "".
func (f Flashcard) ThematicOrEmpty() string {
	if f.Thematic == nil {
		return ""
	}
	return *f.Thematic
}

// DateOrZero returns the date, treating a missing one as 0.
func (f Flashcard) DateOrZero() int64 {
	if f.Date == nil {
		return 0
	}
	return *f.Date
}
