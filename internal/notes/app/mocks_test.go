package app_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"notebuddy/internal/notes/domain/entities"
	"notebuddy/internal/notes/ports/services"
)

var (
	ErrDatabaseOperation = errors.New("database error")
	ErrCacheUnavailable  = errors.New("cache unavailable")
)

// fakeRepository - хранилище в памяти с проверкой владельца.
type fakeRepository struct {
	mu     sync.Mutex
	notes  map[string]*entities.Note
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{notes: make(map[string]*entities.Note)}
}

func (r *fakeRepository) Create(_ context.Context, note *entities.Note) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n := note.Clone()
	n.ID = fmt.Sprintf("note-%d", r.nextID)
	r.notes[n.ID] = n
	return n.Clone(), nil
}

func (r *fakeRepository) GetByID(_ context.Context, noteID, userID string) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, entities.ErrNoteNotFound
	}
	return n.Clone(), nil
}

func (r *fakeRepository) ListByUserID(_ context.Context, userID string) ([]*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entities.Note, 0)
	for _, n := range r.notes {
		if n.UserID == userID {
			out = append(out, n.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *entities.Note) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (r *fakeRepository) Update(
	_ context.Context, noteID, userID string, changes entities.NoteChanges, updatedAt time.Time,
) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, entities.ErrNoteNotFound
	}
	changes.Apply(n)
	n.UpdatedAt = updatedAt
	return n.Clone(), nil
}

func (r *fakeRepository) UpdateSummary(
	_ context.Context, noteID, userID, summary string, updatedAt time.Time,
) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, entities.ErrNoteNotFound
	}
	n.Summary = &summary
	n.UpdatedAt = updatedAt
	return n.Clone(), nil
}

func (r *fakeRepository) Delete(_ context.Context, noteID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.UserID != userID {
		return entities.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error) {
	args := m.Called(ctx, noteID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListByUserID(ctx context.Context, userID string) ([]*entities.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Update(
	ctx context.Context, noteID, userID string, changes entities.NoteChanges, updatedAt time.Time,
) (*entities.Note, error) {
	args := m.Called(ctx, noteID, userID, changes, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) UpdateSummary(
	ctx context.Context, noteID, userID, summary string, updatedAt time.Time,
) (*entities.Note, error) {
	args := m.Called(ctx, noteID, userID, summary, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Delete(ctx context.Context, noteID, userID string) error {
	return m.Called(ctx, noteID, userID).Error(0)
}

type mockNotesCache struct {
	mock.Mock
}

func (m *mockNotesCache) Get(ctx context.Context, userID string) ([]*entities.Note, bool, error) {
	args := m.Called(ctx, userID)
	notes, _ := args.Get(0).([]*entities.Note)
	return notes, args.Bool(1), args.Error(2)
}

func (m *mockNotesCache) Generation(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotesCache) Set(ctx context.Context, userID string, gen int64, notes []*entities.Note) (bool, error) {
	args := m.Called(ctx, userID, gen, notes)
	return args.Bool(0), args.Error(1)
}

func (m *mockNotesCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, content string, style entities.SummaryStyle) services.Summary {
	args := m.Called(ctx, content, style)
	return args.Get(0).(services.Summary)
}
