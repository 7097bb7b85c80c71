package domain

import "strings"

// DefaultCategory is the category assigned to new knowledge-base entries.
const DefaultCategory = "General"

// Incidencia is a knowledge-base entry describing a known problem and its
// solution. Public entries are visible to every user in the library.
type Incidencia struct {
	ID       int64  `json:"ID"`
	Title    string `json:"title"`
	Solution string `json:"solution"`
	Category string `json:"category"`
	IsPublic bool   `json:"isPublic"`
}

// NewIncidencia returns the blank entry used by the create form.
func NewIncidencia() Incidencia {
	return Incidencia{Category: DefaultCategory, IsPublic: true}
}

// Matches reports whether query (case-insensitive) appears in the title,
// solution or category.
func (i Incidencia) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(i.Title), q) ||
		strings.Contains(strings.ToLower(i.Solution), q) ||
		strings.Contains(strings.ToLower(i.Category), q)
}

// FilterIncidencias returns the entries matching query, preserving order.
func FilterIncidencias(items []Incidencia, query string) []Incidencia {
	out := make([]Incidencia, 0, len(items))
	for _, it := range items {
		if it.Matches(query) {
			out = append(out, it)
		}
	}
	return out
}
