package domain

import (
	"fmt"
	"strings"
	"time"
)

// Card-specific validation errors
var (
	// ErrCardQuestionEmpty is returned when a card's question is empty after trimming.
	ErrCardQuestionEmpty = fmt.Errorf("%w: card question cannot be empty", ErrInvalidInput)

	// ErrCardAnswerEmpty is returned when a card's answer is empty after trimming.
	ErrCardAnswerEmpty = fmt.Errorf("%w: card answer cannot be empty", ErrInvalidInput)
)

// Card represents a flashcard. DocumentID and NoteID are weak references into
// the content store: they are used for lookup only and may be nil.
type Card struct {
	ID         int64     `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	DocumentID *int64    `json:"document_id"`
	NoteID     *int64    `json:"note_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCard creates a new Card with trimmed question and answer text.
// The ID is left at zero and assigned by the store on insert.
// Returns an error if either field is empty after trimming.
func NewCard(question, answer string, documentID, noteID *int64) (*Card, error) {
	card := &Card{
		Question:   strings.TrimSpace(question),
		Answer:     strings.TrimSpace(answer),
		DocumentID: documentID,
		NoteID:     noteID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}

	if strings.TrimSpace(c.Answer) == "" {
		return ErrCardAnswerEmpty
	}

	return nil
}

// Key returns the dedup key of the card.
func (c *Card) Key() DedupKey {
	return NewDedupKey(c.DocumentID, c.Question, c.Answer)
}

// CardWithSchedule is a card joined with its document title and SRS schedule.
// Box and DueAt are nil only when the card has no SRS row yet.
type CardWithSchedule struct {
	Card
	DocumentTitle *string    `json:"document_title"`
	Box           *int       `json:"box"`
	DueAt         *time.Time `json:"due_at"`
}

// CardWithLastResult extends CardWithSchedule with the verdict of the most
// recent review. LastResult is nil when the card was never reviewed.
type CardWithLastResult struct {
	CardWithSchedule
	LastResult *bool `json:"last_result"`
}
