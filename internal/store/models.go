package store

// Note is a persisted block of raw user-submitted text.
type Note struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ActionItem is a single derived to-do entry, optionally linked to a Note.
// NoteID is nil when the item was extracted without saving its source note.
type ActionItem struct {
	ID        int64  `json:"id"`
	NoteID    *int64 `json:"note_id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}
