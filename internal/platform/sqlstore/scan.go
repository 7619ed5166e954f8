package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// timeLayouts are the textual forms drivers hand back for timestamp and date
// columns when they do not convert to time.Time themselves.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	domain.DateLayout,
}

// toTime converts a scanned timestamp value. A NULL yields the zero time.
func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTime(string(t))
	case string:
		return parseTime(t)
	default:
		return time.Time{}, fmt.Errorf("unsupported time value of type %T", v)
	}
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}

// toDate converts a scanned calendar date value into the domain's date form.
func toDate(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		// Engines that convert DATE hand back midnight in some zone; keep the
		// calendar day as stored.
		return domain.DateOf(t), nil
	}
	t, err := toTime(v)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOf(t), nil
}

// toTimePtr converts a nullable timestamp.
func toTimePtr(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := toTime(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// cardScheduleColumns is the column list scanCardWithSchedule expects, in order.
const cardScheduleColumns = `
		c.id, c.question, c.answer, c.document_id, c.note_id, c.created_at,
		d.title, s.box, s.due_at`

// cardScheduleFrom joins a card with its document and SRS row.
const cardScheduleFrom = `
	FROM study_cards c
	LEFT JOIN documents d ON d.id = c.document_id
	LEFT JOIN study_srs s ON s.card_id = c.id`

// scanCardWithSchedule scans cardScheduleColumns followed by any extra destinations.
func scanCardWithSchedule(row rowScanner, extra ...any) (*domain.CardWithSchedule, error) {
	var (
		card       domain.CardWithSchedule
		documentID sql.NullInt64
		noteID     sql.NullInt64
		createdAt  any
		title      sql.NullString
		box        sql.NullInt64
		dueAt      any
	)

	dest := []any{
		&card.ID,
		&card.Question,
		&card.Answer,
		&documentID,
		&noteID,
		&createdAt,
		&title,
		&box,
		&dueAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if card.CreatedAt, err = toTime(createdAt); err != nil {
		return nil, fmt.Errorf("card %d created_at: %w", card.ID, err)
	}

	card.DocumentID = int64Ptr(documentID)
	card.NoteID = int64Ptr(noteID)
	card.DocumentTitle = stringPtr(title)

	if box.Valid {
		b := int(box.Int64)
		card.Box = &b
	}

	if dueAt != nil {
		due, err := toDate(dueAt)
		if err != nil {
			return nil, fmt.Errorf("card %d due_at: %w", card.ID, err)
		}
		card.DueAt = &due
	}

	return &card, nil
}
