// Package entities defines the domain entities for the notes service.
package entities

import (
	"errors"
	"strings"
	"time"
)

// Ошибки домена заметок.
var (
	ErrNoteNotFound = errors.New("note not found or not owned by user")
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrEmptyContent = errors.New("content cannot be empty")
)

// Note представляет собой заметку пользователя.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создает заметку владельца userID с отметками времени now.
func NewNote(userID, title, content string, summary *string, now time.Time) *Note {
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Summary:   NormalizeSummary(summary),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate проверяет обязательные поля.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// Clone возвращает независимую копию заметки.
func (n *Note) Clone() *Note {
	c := *n
	if n.Summary != nil {
		s := *n.Summary
		c.Summary = &s
	}
	return &c
}

// HasSummary сообщает, есть ли у заметки резюме.
func (n *Note) HasSummary() bool {
	return n.Summary != nil
}

// NormalizeSummary превращает пустое резюме в его отсутствие.
func NormalizeSummary(summary *string) *string {
	if summary == nil || strings.TrimSpace(*summary) == "" {
		return nil
	}
	s := *summary
	return &s
}

// CloneNotes копирует коллекцию заметок.
func CloneNotes(notes []*Note) []*Note {
	out := make([]*Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// NoteChanges - частичное изменение заметки. Nil-поля не меняются.
// ClearSummary удаляет резюме и важнее Summary.
type NoteChanges struct {
	Title        *string
	Content      *string
	Summary      *string
	ClearSummary bool
}

// Normalize превращает пустое резюме в его удаление.
func (c NoteChanges) Normalize() NoteChanges {
	if c.Summary != nil && NormalizeSummary(c.Summary) == nil {
		c.ClearSummary = true
	}
	if c.ClearSummary {
		c.Summary = nil
	}
	return c
}

// Validate запрещает пустые заголовок и текст, если они заданы.
func (c NoteChanges) Validate() error {
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return ErrEmptyTitle
	}
	if c.Content != nil && strings.TrimSpace(*c.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// Apply применяет изменения к заметке на месте.
func (c NoteChanges) Apply(n *Note) {
	if c.Title != nil {
		n.Title = *c.Title
	}
	if c.Content != nil {
		n.Content = *c.Content
	}
	switch {
	case c.ClearSummary:
		n.Summary = nil
	case c.Summary != nil:
		s := *c.Summary
		n.Summary = &s
	}
}
