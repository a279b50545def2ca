package app

import (
	"slices"
	"sync"
)

// inflightRegistry хранит заметки, для которых сейчас генерируется резюме.
// Счетчик нужен, чтобы параллельные вызовы для одной заметки не снимали
// отметку друг у друга.
type inflightRegistry struct {
	mu    sync.Mutex
	users map[string]map[string]int
}

func newInflightRegistry() *inflightRegistry {
	return &inflightRegistry{users: make(map[string]map[string]int)}
}

func (r *inflightRegistry) begin(userID, noteID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notes, ok := r.users[userID]
	if !ok {
		notes = make(map[string]int)
		r.users[userID] = notes
	}
	notes[noteID]++
}

func (r *inflightRegistry) end(userID, noteID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notes, ok := r.users[userID]
	if !ok {
		return
	}
	if notes[noteID] <= 1 {
		delete(notes, noteID)
	} else {
		notes[noteID]--
	}
	if len(notes) == 0 {
		delete(r.users, userID)
	}
}

func (r *inflightRegistry) list(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.users[userID]))
	for noteID := range r.users[userID] {
		out = append(out, noteID)
	}
	slices.Sort(out)
	return out
}
