package models

// Collection is a named, user-owned grouping of flashcards.
type Collection struct {
	Name string `json:"name" firestore:"name"`
}

// HasCollection reports whether cols holds an entry with exactly this name.
func HasCollection(cols []Collection, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CollectionNames returns the names in stored order.
func CollectionNames(cols []Collection) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}
