package domain

import (
	"errors"
	"testing"
)

func TestNewCard(t *testing.T) {
	t.Parallel()
	docID := int64(7)

	card, err := NewCard("  Capital of France?  ", "\tParis\n", &docID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.Question != "Capital of France?" {
		t.Errorf("Expected trimmed question, got %q", card.Question)
	}

	if card.Answer != "Paris" {
		t.Errorf("Expected trimmed answer, got %q", card.Answer)
	}

	if card.DocumentID == nil || *card.DocumentID != docID {
		t.Errorf("Expected document ID %d, got %v", docID, card.DocumentID)
	}

	if card.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if card.ID != 0 {
		t.Errorf("Expected unassigned ID, got %d", card.ID)
	}
}

func TestNewCardRejectsBlankFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		question string
		answer   string
		want     error
	}{
		{"empty question", "", "a", ErrCardQuestionEmpty},
		{"whitespace question", "   ", "a", ErrCardQuestionEmpty},
		{"empty answer", "q", "", ErrCardAnswerEmpty},
		{"whitespace answer", "q", " \t ", ErrCardAnswerEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCard(tc.question, tc.answer, nil, nil)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected error %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected error to wrap ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestDedupKeyPartitions(t *testing.T) {
	t.Parallel()
	five := int64(5)
	otherFive := int64(5)
	zero := int64(0)

	nullKey := NewDedupKey(nil, "X", "Y")
	docKey := NewDedupKey(&five, "X", "Y")

	if nullKey == docKey {
		t.Error("null-document key must not equal a concrete-document key")
	}

	if NewDedupKey(nil, " X ", "Y ") != nullKey {
		t.Error("keys are built from trimmed text")
	}

	if NewDedupKey(&otherFive, "X", "Y") != docKey {
		t.Error("keys compare by document id value, not pointer")
	}

	if NewDedupKey(&zero, "X", "Y") == nullKey {
		t.Error("document id 0 must not collapse into the null partition")
	}

	if nullKey.DocumentRef() != nil {
		t.Error("null partition key should have a nil document ref")
	}

	if ref := docKey.DocumentRef(); ref == nil || *ref != 5 {
		t.Errorf("Expected document ref 5, got %v", ref)
	}
}
