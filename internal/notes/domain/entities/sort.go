package entities

import (
	"errors"
	"slices"
	"strings"
)

// SortOrder - порядок вывода списка заметок.
type SortOrder string

// Поддерживаемые порядки.
const (
	SortNewest       SortOrder = "newest"
	SortOldest       SortOrder = "oldest"
	SortAlphabetical SortOrder = "alphabetical"
)

// ErrInvalidSortOrder возвращается для неизвестного порядка сортировки.
var ErrInvalidSortOrder = errors.New("invalid sort order")

// ParseSortOrder разбирает порядок сортировки. Пустая строка означает newest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortAlphabetical:
		return SortAlphabetical, nil
	default:
		return "", ErrInvalidSortOrder
	}
}

// SortNotes возвращает новый срез, упорядоченный по order. Исходный не меняется.
func SortNotes(notes []*Note, order SortOrder) []*Note {
	out := slices.Clone(notes)

	switch order {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b *Note) int {
			if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	case SortAlphabetical:
		slices.SortStableFunc(out, func(a, b *Note) int {
			if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	default:
		slices.SortStableFunc(out, func(a, b *Note) int {
			if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	}

	return out
}

// FilterNotes оставляет заметки, у которых заголовок, текст или резюме
// содержат query без учета регистра. Пустой query возвращает копию.
func FilterNotes(notes []*Note, query string) []*Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(notes)
	}

	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		if matches(n, q) {
			out = append(out, n)
		}
	}
	return out
}

func matches(n *Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	return n.Summary != nil && strings.Contains(strings.ToLower(*n.Summary), q)
}
