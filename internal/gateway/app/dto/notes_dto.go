package dto

import (
	"time"

	notesapp "notebuddy/internal/notes/app"
	"notebuddy/internal/notes/domain/entities"
)

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Summary *string `json:"summary"`
}

// UpdateNoteRequest содержит данные для обновления заметки.
// Отсутствующие поля не меняются.
type UpdateNoteRequest struct {
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	Summary      *string `json:"summary"`
	ClearSummary bool    `json:"clear_summary"`
}

// Patch преобразует запрос в изменение заметки.
func (r *UpdateNoteRequest) Patch() notesapp.NotePatch {
	return notesapp.NotePatch{
		Title:        r.Title,
		Content:      r.Content,
		Summary:      r.Summary,
		ClearSummary: r.ClearSummary,
	}
}

// SummarizeRequest содержит текст и стиль резюме. Пустой Content означает
// текст, сохраненный в заметке.
type SummarizeRequest struct {
	Content string `json:"content"`
	Style   string `json:"style"`
}

// Note представляет заметку.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote преобразует сущность заметки.
func NewNote(n *entities.Note) *Note {
	return &Note{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NoteResponse содержит информацию о заметке для ответа.
type NoteResponse struct {
	Note *Note `json:"note"`
}

// ListNotesResponse содержит список заметок.
type ListNotesResponse struct {
	Notes      []*Note `json:"notes"`
	TotalCount int     `json:"total_count"`
}

// NewListNotesResponse преобразует список сущностей.
func NewListNotesResponse(notes []*entities.Note) *ListNotesResponse {
	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, NewNote(n))
	}
	return &ListNotesResponse{Notes: out, TotalCount: len(out)}
}

// SummaryResponse содержит результат генерации резюме.
type SummaryResponse struct {
	Summary  string `json:"summary"`
	Fallback bool   `json:"fallback"`
	Skipped  bool   `json:"skipped"`
	Note     *Note  `json:"note,omitempty"`
}

// NewSummaryResponse преобразует результат генерации.
func NewSummaryResponse(res *notesapp.SummaryResult) *SummaryResponse {
	out := &SummaryResponse{
		Summary:  res.Summary,
		Fallback: res.Fallback,
		Skipped:  res.Skipped,
	}
	if res.Note != nil {
		out.Note = NewNote(res.Note)
	}
	return out
}

// SummarizingResponse содержит ID заметок с незавершенной генерацией резюме.
type SummarizingResponse struct {
	NoteIDs []string `json:"note_ids"`
}
