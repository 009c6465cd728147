// Package items coordinates action-item extraction end-to-end: validation,
// optional note persistence, extraction, item persistence, and read-after-write
// response assembly.
package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/actiond/internal/extraction"
	"github.com/fyrsmithlabs/actiond/internal/store"
)

// ErrEmptyText is returned when an extraction request carries no text after
// trimming. Surfaced as a client error at the HTTP boundary.
var ErrEmptyText = errors.New("text is required")

// Service is the extraction orchestrator.
type Service struct {
	store     *store.Store
	extractor *extraction.Extractor
	logger    *zap.Logger
}

// NewService creates the orchestrator service.
func NewService(st *store.Store, ex *extraction.Extractor, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if ex == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, extractor: ex, logger: logger}, nil
}

// ExtractResult is the outcome of a single extraction request.
type ExtractResult struct {
	NoteID *int64             `json:"note_id"`
	Items  []store.ActionItem `json:"items"`

	// Source reports which extraction path produced the items. Not part of
	// the wire response; used for logging and metrics.
	Source extraction.Source `json:"-"`
}

// NoteWithItems is a note with its action items nested under it.
type NoteWithItems struct {
	store.Note
	Items []store.ActionItem `json:"items"`
}

// Extract runs one extraction request end-to-end. The returned items are
// re-read from the store after insertion so the response always reflects
// durable state (store-assigned ids, created_at, done) rather than the
// in-memory extraction output.
func (s *Service) Extract(ctx context.Context, text string, saveNote bool) (*ExtractResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	var noteID *int64
	if saveNote {
		id, err := s.store.InsertNote(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to save note: %w", err)
		}
		noteID = &id
	}

	texts, source := s.extractor.Extract(ctx, text)

	ids, err := s.store.InsertActionItems(ctx, texts, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to save action items: %w", err)
	}

	items, err := s.store.GetActionItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read back action items: %w", err)
	}

	s.logger.Info("extraction complete",
		zap.Int("items", len(items)),
		zap.String("source", string(source)),
		zap.Bool("note_saved", noteID != nil),
	)

	return &ExtractResult{NoteID: noteID, Items: items, Source: source}, nil
}

// List returns all action items, or only those of the given note.
func (s *Service) List(ctx context.Context, noteID *int64) ([]store.ActionItem, error) {
	return s.store.ListActionItems(ctx, noteID)
}

// SetDone updates the done flag of a single action item.
// Returns store.ErrNotFound when the id does not exist.
func (s *Service) SetDone(ctx context.Context, id int64, done bool) error {
	return s.store.SetActionItemDone(ctx, id, done)
}

// Notes returns every note with its items nested under it. One items query
// runs per note; acceptable at this scale.
func (s *Service) Notes(ctx context.Context) ([]NoteWithItems, error) {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]NoteWithItems, 0, len(notes))
	for _, note := range notes {
		items, err := s.store.ListActionItems(ctx, &note.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, NoteWithItems{Note: note, Items: items})
	}
	return result, nil
}
