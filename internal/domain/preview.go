package domain

import "time"

// PreviewSource names the kind of content a preview item was extracted from.
type PreviewSource string

// Possible preview source values
const (
	PreviewSourceNotes PreviewSource = "notes"
	PreviewSourceDocs  PreviewSource = "docs"
)

// QAPair is one question/answer candidate produced by an extractor.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PreviewItem is a generated card candidate awaiting commit. IsDup is set when
// an identical card already exists in the card store.
type PreviewItem struct {
	Question   string        `json:"question"`
	Answer     string        `json:"answer"`
	DocumentID *int64        `json:"document_id"`
	NoteID     *int64        `json:"note_id"`
	Source     PreviewSource `json:"source"`
	IsDup      bool          `json:"is_dup"`
}

// Key returns the dedup key of the item.
func (i PreviewItem) Key() DedupKey {
	return NewDedupKey(i.DocumentID, i.Question, i.Answer)
}

// PreviewBatch is a token-addressed set of candidates held by the preview
// cache until it is committed or expires.
type PreviewBatch struct {
	Token     string        `json:"token"`
	CreatedAt time.Time     `json:"created_at"`
	Items     []PreviewItem `json:"items"`
}
