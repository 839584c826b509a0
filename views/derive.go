package views

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/andrewpaige1/flashcards-api/models"
)

// SortOrder selects how the visible flashcard list is ordered.
type SortOrder string

const (
	SortByName     SortOrder = "name"
	SortByDate     SortOrder = "date"
	SortByThematic SortOrder = "thematic"
)

// ParseSortOrder maps unknown or empty values to SortByName.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortByDate, SortByThematic:
		return SortOrder(s)
	default:
		return SortByName
	}
}

// Filter keeps cards whose front or back contains query, ignoring case.
// An empty query returns every card in its original order.
func Filter(cards []models.Flashcard, query string) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(cards))
	q := strings.ToLower(query)
	for _, c := range cards {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Front), q) ||
			strings.Contains(strings.ToLower(c.Back), q) {
			out = append(out, c)
		}
	}
	return out
}

// Sort returns a stably sorted copy of cards. A missing date sorts as 0 and a
// missing thematic label as the empty string.
func Sort(cards []models.Flashcard, order SortOrder) []models.Flashcard {
	out := slices.Clone(cards)
	if out == nil {
		out = []models.Flashcard{}
	}

	switch order {
	case SortByDate:
		slices.SortStableFunc(out, func(a, b models.Flashcard) int {
			da, db := a.DateOrZero(), b.DateOrZero()
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}
			return 0
		})
	case SortByThematic:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b models.Flashcard) int {
			return col.CompareString(a.ThematicOrEmpty(), b.ThematicOrEmpty())
		})
	default:
		col := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b models.Flashcard) int {
			return col.CompareString(a.Front, b.Front)
		})
	}
	return out
}

// Derive is the visible list for a raw card set: Filter, then Sort.
func Derive(cards []models.Flashcard, query string, order SortOrder) []models.Flashcard {
	return Sort(Filter(cards, query), order)
}
